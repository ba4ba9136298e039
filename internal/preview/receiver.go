package preview

import (
	"bytes"
	"context"
	"sync"

	"git.home.luguber.info/inful/salonsite/internal/applier"
	"git.home.luguber.info/inful/salonsite/internal/content"
	"git.home.luguber.info/inful/salonsite/internal/dom"
	"git.home.luguber.info/inful/salonsite/internal/logfields"
)

// Receiver is a preview rendering context. It holds the page template and the last
// document it was sent, and renders the template with that document applied.
//
// Messages that arrive before MarkReady are dropped. Each accepted message replaces
// the held document wholesale; fields absent from it keep the template's markup.
type Receiver struct {
	options
	applier *applier.Applier
	script  string

	mu       sync.RWMutex
	template []byte
	ready    bool
	doc      content.Document
	html     []byte
	lastID   string
}

// NewReceiver creates a receiver over template. script, when not empty, is added to
// the end of the body of every rendering.
func NewReceiver(template []byte, a *applier.Applier, script string, opts ...Option) *Receiver {
	return &Receiver{
		options:  newOptions(opts),
		applier:  a,
		script:   script,
		template: bytes.Clone(template),
	}
}

// MarkReady renders doc and starts accepting messages.
func (r *Receiver) MarkReady(doc content.Document) error {
	out, err := r.render(doc)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.doc = doc.Clone()
	r.html = out
	r.ready = true
	return nil
}

// Ready reports whether the receiver accepts messages.
func (r *Receiver) Ready() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ready
}

// SetTemplate swaps the page template and re-renders the held document.
func (r *Receiver) SetTemplate(template []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.template
	r.template = bytes.Clone(template)
	if !r.ready {
		return nil
	}
	out, err := r.renderLocked(r.doc)
	if err != nil {
		r.template = prev
		return err
	}
	r.html = out
	return nil
}

// Send applies msg. It never blocks on anything but the render itself.
func (r *Receiver) Send(_ context.Context, msg Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.ready {
		r.metrics.IncPreviewDropped("not_ready")
		r.logger.Debug("Preview message dropped", logfields.MessageID(msg.ID), logfields.Reason("not_ready"))
		return
	}
	switch msg.Type {
	case KindUpdateContent, KindReset:
	default:
		r.logger.Debug("Ignoring preview message", logfields.MessageID(msg.ID), logfields.Kind(string(msg.Type)))
		return
	}
	out, err := r.renderLocked(msg.Content)
	if err != nil {
		r.logger.Warn("Preview render failed", logfields.MessageID(msg.ID), logfields.Error(err))
		return
	}
	r.doc = msg.Content.Clone()
	r.html = out
	r.lastID = msg.ID
	r.metrics.IncPreviewMessage("receiver")
}

// HTML returns the current rendering, or the bare template before MarkReady.
func (r *Receiver) HTML() []byte {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.html == nil {
		return bytes.Clone(r.template)
	}
	return bytes.Clone(r.html)
}

// Document returns a copy of the held document.
func (r *Receiver) Document() content.Document {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.doc.Clone()
}

// lastMessageID returns the id of the last applied message.
func (r *Receiver) lastMessageID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastID
}

func (r *Receiver) render(doc content.Document) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.renderLocked(doc)
}

func (r *Receiver) renderLocked(doc content.Document) ([]byte, error) {
	return Render(r.template, doc, r.applier, r.script)
}

// Render parses template, applies doc and optionally appends a script tag to the body.
func Render(template []byte, doc content.Document, a *applier.Applier, script string) ([]byte, error) {
	page, err := dom.Parse(bytes.NewReader(template))
	if err != nil {
		return nil, err
	}
	a.Apply(doc, page)
	if script != "" {
		if body, qerr := page.QueryFirst("body"); qerr == nil && body != nil {
			body.AppendChild(dom.NewElement("script", "src", script, "defer", ""))
		}
	}
	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
