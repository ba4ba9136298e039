// Package dom is a small mutable DOM over golang.org/x/net/html with CSS selector
// queries. It is what the content applier and the editor form operate on.
package dom

import (
	"bytes"
	"io"
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"git.home.luguber.info/inful/salonsite/internal/foundation/errors"
)

// Document wraps a parsed HTML tree.
type Document struct {
	root *html.Node
}

// Parse reads a complete HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to parse HTML").Build()
	}
	return &Document{root: root}, nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Element returns the <html> element, or nil for an empty tree.
func (d *Document) Element() *html.Node {
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Html {
			return c
		}
	}
	return nil
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	if err := html.Render(w, d.root); err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to render HTML").Build()
	}
	return nil
}

// String renders the document, returning "" if rendering fails.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// Query returns every element in the document matching selector, in document order.
func (d *Document) Query(selector string) ([]*html.Node, error) {
	return QueryWithin(d.root, selector)
}

// QueryFirst returns the first match, or nil.
func (d *Document) QueryFirst(selector string) (*html.Node, error) {
	sel, err := compile(selector)
	if err != nil {
		return nil, err
	}
	return sel.MatchFirst(d.root), nil
}

// Title returns the text of the <title> element.
func (d *Document) Title() string {
	n, _ := d.QueryFirst("title")
	if n == nil {
		return ""
	}
	return Text(n)
}

// SetTitle sets the <title> text, creating the element inside <head> if needed.
func (d *Document) SetTitle(title string) {
	n, _ := d.QueryFirst("title")
	if n == nil {
		head, _ := d.QueryFirst("head")
		if head == nil {
			return
		}
		n = NewElement("title")
		head.AppendChild(n)
	}
	SetText(n, title)
}

// QueryWithin returns the descendants of n (n included) matching selector.
func QueryWithin(n *html.Node, selector string) ([]*html.Node, error) {
	sel, err := compile(selector)
	if err != nil {
		return nil, err
	}
	return sel.MatchAll(n), nil
}

var selectorCache sync.Map // string -> cascadia.Selector

func compile(selector string) (cascadia.Selector, error) {
	if cached, ok := selectorCache.Load(selector); ok {
		return cached.(cascadia.Selector), nil
	}
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategorySelectorInvalid, "invalid selector").
			Warning().
			WithContext("selector", selector).
			Build()
	}
	selectorCache.Store(selector, sel)
	return sel, nil
}
