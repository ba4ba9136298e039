package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/salonsite/internal/foundation/errors"
)

const page = `<!DOCTYPE html>
<html lang="fr"><head><title>Old</title></head>
<body>
<header><h1 class="logo"><i class="fas fa-cut"></i> Salon</h1></header>
<section id="services">
  <div class="service-card"><h3>A</h3></div>
  <div class="service-card"><h3>B</h3></div>
</section>
<a class="hover:bg-primary-dark" href="https://wa.me/22900000000">WhatsApp</a>
</body></html>`

func mustParse(t *testing.T, s string) *Document {
	t.Helper()
	d, err := ParseString(s)
	require.NoError(t, err)
	return d
}

func TestQuery(t *testing.T) {
	d := mustParse(t, page)

	cards, err := d.Query("#services .service-card")
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "B", Text(cards[1]))

	links, err := d.Query(`a[href*="wa.me/"]`)
	require.NoError(t, err)
	assert.Len(t, links, 1)

	escaped, err := d.Query(`.hover\:bg-primary-dark`)
	require.NoError(t, err)
	assert.Len(t, escaped, 1)
}

func TestQueryInvalidSelector(t *testing.T) {
	d := mustParse(t, page)
	_, err := d.Query("div[")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategorySelectorInvalid))
}

func TestTitle(t *testing.T) {
	d := mustParse(t, page)
	assert.Equal(t, "Old", d.Title())
	d.SetTitle("Salon Premium")
	assert.Equal(t, "Salon Premium", d.Title())

	bare := mustParse(t, "<p>x</p>")
	bare.SetTitle("Created")
	assert.Equal(t, "Created", bare.Title())
}

func TestTextAndAttrs(t *testing.T) {
	d := mustParse(t, page)
	h1, err := d.QueryFirst("h1")
	require.NoError(t, err)

	assert.True(t, HasClass(h1, "logo"))
	assert.False(t, HasClass(h1, "log"))
	assert.Equal(t, " Salon", Text(h1))

	SetText(h1, "Nouveau")
	assert.Equal(t, "Nouveau", Text(h1))
	assert.Nil(t, FirstChildElement(h1, "i"))

	SetAttr(h1, "data-content", "site.logo.text")
	v, ok := Attr(h1, "data-content")
	assert.True(t, ok)
	assert.Equal(t, "site.logo.text", v)
	RemoveAttr(h1, "data-content")
	_, ok = Attr(h1, "data-content")
	assert.False(t, ok)
}

func TestInnerHTML(t *testing.T) {
	d := mustParse(t, page)
	h1, _ := d.QueryFirst("h1")
	RemoveChildren(h1)
	h1.AppendChild(NewText("L'Excellence en "))
	span := NewElement("span", "class", "text-accent")
	span.AppendChild(NewText("Coiffure"))
	h1.AppendChild(span)
	assert.Equal(t, `L&#39;Excellence en <span class="text-accent">Coiffure</span>`, InnerHTML(h1))
}

func TestStyle(t *testing.T) {
	d := mustParse(t, `<html style="color: red"><body></body></html>`)
	root := d.Element()
	require.NotNil(t, root)

	SetStyle(root, "--primary-color", "#ec7014")
	assert.Equal(t, "red", Style(root, "color"))
	assert.Equal(t, "#ec7014", Style(root, "--primary-color"))

	SetStyle(root, "--primary-color", "#000000")
	v, _ := Attr(root, "style")
	assert.Equal(t, "color: red; --primary-color: #000000;", v)
}

func TestNewElementRender(t *testing.T) {
	d := mustParse(t, "<ul></ul>")
	ul, _ := d.QueryFirst("ul")
	li := NewElement("li", "class", "item")
	li.AppendChild(NewText("Coupe"))
	ul.AppendChild(li)
	assert.Contains(t, d.String(), `<ul><li class="item">Coupe</li></ul>`)
}
