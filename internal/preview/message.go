// Package preview carries content documents from the editor to rendering contexts.
//
// Delivery is fire-and-forget and at-most-once: Send never waits for a receiver,
// receivers that are not ready drop what they get, and nothing is acknowledged.
package preview

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/salonsite/internal/content"
	"git.home.luguber.info/inful/salonsite/internal/foundation/errors"
	"git.home.luguber.info/inful/salonsite/internal/metrics"
)

// Kind discriminates preview messages. Receivers ignore kinds they do not know.
type Kind string

const (
	KindUpdateContent Kind = "updateContent"
	KindReset         Kind = "reset"
)

// Message is one preview delivery. Content is always the full document.
type Message struct {
	ID      string           `json:"id"`
	Type    Kind             `json:"type"`
	Content content.Document `json:"content"`
	SentAt  time.Time        `json:"sentAt"`
}

// NewUpdate wraps doc in an updateContent message.
func NewUpdate(doc content.Document) Message {
	return Message{ID: uuid.NewString(), Type: KindUpdateContent, Content: doc.Clone(), SentAt: time.Now().UTC()}
}

// NewReset builds a reset message carrying the default document.
func NewReset() Message {
	return Message{ID: uuid.NewString(), Type: KindReset, Content: content.Default(), SentAt: time.Now().UTC()}
}

// Decode parses a message leniently: a content payload that does not decode is
// replaced by an empty document, so applying it changes nothing.
func Decode(data []byte) (Message, error) {
	var raw struct {
		ID      string          `json:"id"`
		Type    Kind            `json:"type"`
		Content json.RawMessage `json:"content"`
		SentAt  time.Time       `json:"sentAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Message{}, errors.WrapError(err, errors.CategoryValidation, "decode preview message").Build()
	}
	msg := Message{ID: raw.ID, Type: raw.Type, SentAt: raw.SentAt}
	if doc, err := content.Decode(raw.Content); err == nil {
		msg.Content = doc
	}
	return msg, nil
}

// Sender is implemented by everything a preview message can be sent to.
type Sender interface {
	Send(ctx context.Context, msg Message)
}

// Fanout sends each message to every member in order.
type Fanout []Sender

func (f Fanout) Send(ctx context.Context, msg Message) {
	for _, s := range f {
		s.Send(ctx, msg)
	}
}

// Option configures the hub, receivers and transports.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	metrics metrics.Recorder
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func WithRecorder(r metrics.Recorder) Option {
	return func(o *options) { o.metrics = metrics.OrNoop(r) }
}

func newOptions(opts []Option) options {
	o := options{logger: slog.Default(), metrics: metrics.NoopRecorder{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
