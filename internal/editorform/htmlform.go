package editorform

import (
	"fmt"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/salonsite/internal/dom"
)

// HTMLForm is a Form backed by the controls of a parsed editor page.
type HTMLForm struct {
	page *dom.Document
}

func NewHTMLForm(page *dom.Document) *HTMLForm {
	return &HTMLForm{page: page}
}

func (f *HTMLForm) control(id string) *html.Node {
	n, err := f.page.QueryFirst(fmt.Sprintf("[id=%q]", id))
	if err != nil {
		return nil
	}
	return n
}

func (f *HTMLForm) Value(id string) string {
	n := f.control(id)
	if n == nil {
		return ""
	}
	switch n.Data {
	case "textarea":
		return dom.Text(n)
	case "select":
		var first string
		for i, opt := range options(n) {
			v := optionValue(opt)
			if i == 0 {
				first = v
			}
			if _, ok := dom.Attr(opt, "selected"); ok {
				return v
			}
		}
		return first
	default:
		v, _ := dom.Attr(n, "value")
		return v
	}
}

func (f *HTMLForm) SetValue(id, value string) {
	n := f.control(id)
	if n == nil {
		return
	}
	switch n.Data {
	case "textarea":
		dom.SetText(n, value)
	case "select":
		for _, opt := range options(n) {
			if optionValue(opt) == value {
				dom.SetAttr(opt, "selected", "")
			} else {
				dom.RemoveAttr(opt, "selected")
			}
		}
	case "input":
		if t, _ := dom.Attr(n, "type"); t == "file" {
			return
		}
		dom.SetAttr(n, "value", value)
	}
}

func options(sel *html.Node) []*html.Node {
	opts, _ := dom.QueryWithin(sel, "option")
	return opts
}

func optionValue(opt *html.Node) string {
	if v, ok := dom.Attr(opt, "value"); ok {
		return v
	}
	return dom.Text(opt)
}
