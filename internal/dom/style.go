package dom

import (
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"
)

// Style returns the inline value of a CSS property on n.
func Style(n *html.Node, property string) string {
	for _, d := range declarations(n) {
		if d.Property == property {
			return d.Value
		}
	}
	return ""
}

// SetStyle sets one inline CSS property on n, keeping the other declarations in place.
func SetStyle(n *html.Node, property, value string) {
	decls := declarations(n)
	found := false
	for _, d := range decls {
		if d.Property == property {
			d.Value = value
			d.Important = false
			found = true
		}
	}
	if !found {
		decls = append(decls, &css.Declaration{Property: property, Value: value})
	}
	SetAttr(n, "style", formatDeclarations(decls))
}

// declarations parses n's style attribute. An unparsable attribute is treated as empty
// and gets overwritten on the next SetStyle.
func declarations(n *html.Node) []*css.Declaration {
	raw, ok := Attr(n, "style")
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	raw = strings.TrimSpace(raw)
	if !strings.HasSuffix(raw, ";") {
		raw += ";"
	}
	decls, err := parser.ParseDeclarations(raw)
	if err != nil {
		return nil
	}
	return decls
}

func formatDeclarations(decls []*css.Declaration) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		p := d.Property + ": " + d.Value
		if d.Important {
			p += " !important"
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, "; ") + ";"
}
