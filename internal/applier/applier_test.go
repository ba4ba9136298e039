package applier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/salonsite/internal/content"
	"git.home.luguber.info/inful/salonsite/internal/dom"
	"git.home.luguber.info/inful/salonsite/internal/site"
)

// legacyPage is markup without declared slots, as written before slots existed.
const legacyPage = `<!DOCTYPE html>
<html><head><title>Salon</title></head><body>
<header><h1><i class="fas fa-cut"></i> Salon Premium</h1></header>
<section id="accueil">
  <h1>L'Excellence en Coiffure</h1>
  <p>Découvrez une expérience unique...</p>
  <ul><li class="s"><i class="fas fa-check"></i> Coupe</li><li class="s"><i class="fas fa-check"></i> Couleur</li></ul>
  <a class="btn bg-primary hover:bg-primary-dark" href="#contact"><i class="fas fa-calendar"></i> Prendre RDV</a>
  <a class="btn bg-accent" href="https://wa.me/22900000000"><i class="fab fa-whatsapp"></i> WhatsApp</a>
</section>
<section id="services">
  <h2>Nos Services</h2>
  <p>Sous-titre</p>
  <div class="service-card"><img src="/a.svg" alt="A"><h3>A</h3><p>desc A</p></div>
  <div class="service-card"><img src="/b.svg" alt="B"><h3>B</h3><p>desc B</p></div>
</section>
<section id="contact">
  <p><i class="fas fa-phone"></i> +229 XX XX XX XX</p>
  <p><i class="fas fa-map"></i> 12 Avenue Steinmetz, Cotonou</p>
  <p><i class="fas fa-clock"></i> Lun-Sam 9h-19h</p>
  <a href="tel:+22900000000">Appeler</a>
  <a href="https://api.whatsapp.com/send?phone=22900000000">Chat</a>
</section>
</body></html>`

func parse(t *testing.T, s string) *dom.Document {
	t.Helper()
	d, err := dom.ParseString(s)
	require.NoError(t, err)
	return d
}

func stockPage(t *testing.T) *dom.Document {
	t.Helper()
	b, err := site.Page("", site.IndexPage)
	require.NoError(t, err)
	return parse(t, string(b))
}

func text(t *testing.T, d *dom.Document, selector string) string {
	t.Helper()
	n, err := d.QueryFirst(selector)
	require.NoError(t, err)
	require.NotNil(t, n, selector)
	return dom.Text(n)
}

func attr(t *testing.T, d *dom.Document, selector, key string) string {
	t.Helper()
	n, err := d.QueryFirst(selector)
	require.NoError(t, err)
	require.NotNil(t, n, selector)
	v, _ := dom.Attr(n, key)
	return v
}

func TestApplyEmptyDocumentLeavesPageUntouched(t *testing.T) {
	page := parse(t, legacyPage)
	before := page.String()

	report := New().Apply(content.Document{}, page)

	assert.Equal(t, before, page.String())
	assert.Empty(t, report.Applied)
	assert.Empty(t, report.Failures)
}

func TestIdentityWithSlots(t *testing.T) {
	page := stockPage(t)
	doc := content.Document{Site: &content.Site{
		Title: content.Str("Chez Awa"),
		Logo:  &content.Logo{Text: content.Str("Awa Coiffure"), Icon: content.Str("fas fa-star")},
	}}

	New().Apply(doc, page)

	assert.Equal(t, "Chez Awa", page.Title())
	assert.Equal(t, "Chez Awa", text(t, page, `footer [data-content="site.title"]`))
	assert.Equal(t, "Awa Coiffure", text(t, page, `[data-content="site.logo.text"]`))
	assert.Equal(t, "fas fa-star", attr(t, page, `[data-content="site.logo.icon"]`, "class"))
}

func TestIdentityFallbackPreservesIcon(t *testing.T) {
	page := parse(t, legacyPage)
	doc := content.Document{Site: &content.Site{Logo: &content.Logo{Text: content.Str("Awa")}}}

	a := New()
	a.Apply(doc, page)
	a.Apply(doc, page)

	h1, err := page.QueryFirst("header h1")
	require.NoError(t, err)
	assert.Equal(t, `<i class="fas fa-cut"></i> Awa`, dom.InnerHTML(h1))
}

func TestThemeSetsVariablesAndRestyles(t *testing.T) {
	page := parse(t, legacyPage)
	doc := content.Document{Theme: &content.Theme{
		PrimaryColor: content.Str("#22c55e"),
		AccentColor:  content.Str("#000000"),
	}}

	report := New().Apply(doc, page)
	require.Empty(t, report.Failures)

	root := page.Element()
	assert.Equal(t, "#22c55e", dom.Style(root, "--primary-color"))
	assert.Equal(t, "#000000", dom.Style(root, "--accent-color"))
	assert.Empty(t, dom.Style(root, "--secondary-color"))

	btn, err := page.QueryFirst(`.hover\:bg-primary-dark`)
	require.NoError(t, err)
	assert.Equal(t, "#08ab44", dom.Style(btn, "background-color"), "hover shade overrides the primary background")
	assert.Equal(t, "#08ab44", dom.Style(root, "--primary-dark-color"))
	accent, err := page.QueryFirst(".bg-accent")
	require.NoError(t, err)
	assert.Equal(t, "#000000", dom.Style(accent, "background-color"))
}

func TestThemeHoverShadeOnStockButton(t *testing.T) {
	page := stockPage(t)
	New().Apply(content.Document{Theme: &content.Theme{PrimaryColor: content.Str("#ec7014")}}, page)

	btn, err := page.QueryFirst(`[data-content="hero.ctaButton"]`)
	require.NoError(t, err)
	require.True(t, dom.HasClass(btn, "bg-primary"))
	require.True(t, dom.HasClass(btn, "hover:bg-primary-dark"))
	assert.Equal(t, Darken("#ec7014", 10), dom.Style(btn, "background-color"))
	style, _ := dom.Attr(btn, "style")
	assert.NotContains(t, style, "#ec7014")
}

func TestDarken(t *testing.T) {
	tests := []struct {
		in, want string
		pct      float64
	}{
		{"#22c55e", "#08ab44", 10},
		{"#ec7014", "#d25600", 10},
		{"#0f172a", "#000010", 10},
		{"#fff", "#e5e5e5", 10},
		{"#ffffff", "#ffffff", 0},
		{"#ffffff", "#000000", 100},
		{"green", "green", 10},
		{"#12345", "#12345", 10},
		{"#zzzzzz", "#zzzzzz", 10},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Darken(tt.in, tt.pct))
		})
	}
}

func TestHeroTitleHighlight(t *testing.T) {
	tests := []struct {
		title string
		html  string
	}{
		{"Coiffure Premium", "Coiffure Premium"},
		{"Salon", "Salon"},
		{"L'Excellence en Coiffure", `L&#39;Excellence en <span class="text-accent">Coiffure</span>`},
		{"  Beauté   au naturel ", `Beauté au <span class="text-accent">naturel</span>`},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			page := stockPage(t)
			New().Apply(content.Document{Hero: &content.Hero{Title: content.Str(tt.title)}}, page)
			h1, err := page.QueryFirst(`[data-content="hero.title"]`)
			require.NoError(t, err)
			assert.Equal(t, tt.html, dom.InnerHTML(h1))
		})
	}
}

func TestHeroButtonsByLabel(t *testing.T) {
	page := parse(t, legacyPage)
	doc := content.Document{Hero: &content.Hero{
		Subtitle:       content.Str("Nouveau sous-titre"),
		CTAButton:      &content.Button{Text: content.Str("Réserver maintenant"), Link: content.Str("#rdv")},
		WhatsAppButton: &content.Button{Text: content.Str("Écrivez-nous sur WhatsApp")},
	}}

	New().Apply(doc, page)

	assert.Equal(t, "Nouveau sous-titre", text(t, page, "#accueil p"))
	cta, err := page.QueryFirst(".bg-primary")
	require.NoError(t, err)
	assert.Equal(t, `<i class="fas fa-calendar"></i> Réserver maintenant`, dom.InnerHTML(cta))
	href, _ := dom.Attr(cta, "href")
	assert.Equal(t, "#rdv", href)
	assert.Equal(t, " Écrivez-nous sur WhatsApp", text(t, page, ".bg-accent"))
}

func TestHeroButtonWithoutTargetIsSkipped(t *testing.T) {
	page := parse(t, `<html><body><section id="accueil"><a href="#">Autre</a></section></body></html>`)
	report := New().Apply(content.Document{Hero: &content.Hero{
		CTAButton: &content.Button{Text: content.Str("Go")},
	}}, page)
	assert.Contains(t, report.Skipped, content.PathCTAText)
	assert.Equal(t, "Autre", text(t, page, "a"))
}

func TestHeroBackground(t *testing.T) {
	page := stockPage(t)
	New().Apply(content.Document{Hero: &content.Hero{BackgroundImage: content.Str("data:image/png;base64,AAAA")}}, page)

	hero, err := page.QueryFirst("#accueil")
	require.NoError(t, err)
	assert.Equal(t,
		"linear-gradient(rgba(15, 23, 42, 0.7), rgba(15, 23, 42, 0.7)), url('data:image/png;base64,AAAA')",
		dom.Style(hero, "background"))
	assert.Equal(t, "cover", dom.Style(hero, "background-size"))
	assert.Equal(t, "center", dom.Style(hero, "background-position"))
}

func TestSpecialtiesReplaceWithoutDuplication(t *testing.T) {
	page := parse(t, legacyPage)
	doc := content.Document{Hero: &content.Hero{Specialties: []string{"Tresses", "Défrisage", "Manucure"}}}

	a := New()
	a.Apply(doc, page)
	once := page.String()
	a.Apply(doc, page)
	assert.Equal(t, once, page.String())

	items, err := page.Query("#accueil ul li")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, " Tresses", dom.Text(items[0]))
	assert.Equal(t, " Manucure", dom.Text(items[2]))
	assert.True(t, dom.HasClass(items[1], "s"))
}

func TestEmptySpecialtiesClearsList(t *testing.T) {
	page := parse(t, legacyPage)
	New().Apply(content.Document{Hero: &content.Hero{Specialties: []string{}}}, page)
	items, err := page.Query("#accueil ul li")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestServicesItemsAlignment(t *testing.T) {
	t.Run("more items than slots", func(t *testing.T) {
		page := parse(t, legacyPage)
		doc := content.Document{Services: &content.Services{Items: []content.ServiceItem{
			{Title: content.Str("Coupe"), Icon: content.Str("/coupe.svg")},
			{Description: content.Str("Nouvelle desc")},
			{Title: content.Str("Extra")},
		}}}

		report := New().Apply(doc, page)

		assert.Equal(t, 1, report.Dropped)
		cards, err := page.Query("#services .service-card")
		require.NoError(t, err)
		require.Len(t, cards, 2)
		assert.NotContains(t, page.String(), "Extra")
		assert.Equal(t, "/coupe.svg", attr(t, page, "#services .service-card img", "src"))
		assert.Equal(t, "Coupe", attr(t, page, "#services .service-card img", "alt"))
		assert.Equal(t, "Coupe", text(t, page, "#services .service-card h3"))
		assert.Equal(t, "B", dom.Text(cards[1].FirstChild.NextSibling))
		assert.Contains(t, dom.InnerHTML(cards[1]), "<p>Nouvelle desc</p>")
	})

	t.Run("fewer items than slots", func(t *testing.T) {
		page := stockPage(t)
		doc := content.Document{Services: &content.Services{Items: []content.ServiceItem{
			{Title: content.Str("Barbier")},
		}}}

		New().Apply(doc, page)

		cards, err := page.Query(`[data-content="services.items"] > *`)
		require.NoError(t, err)
		require.Len(t, cards, 3)
		assert.Contains(t, dom.Text(cards[0]), "Barbier")
		assert.Contains(t, dom.Text(cards[1]), "Coloration")
		assert.Contains(t, dom.Text(cards[2]), "Soins")
	})
}

func TestServicesTitles(t *testing.T) {
	page := parse(t, legacyPage)
	New().Apply(content.Document{Services: &content.Services{
		Title:    content.Str("Nos prestations"),
		Subtitle: content.Str("Pour tous"),
	}}, page)
	assert.Equal(t, "Nos prestations", text(t, page, "#services h2"))
	assert.Equal(t, "Pour tous", text(t, page, "#services h2 + p"))
}

func TestContactLegacyHeuristics(t *testing.T) {
	page := parse(t, legacyPage)
	doc := content.Document{Contact: &content.Contact{
		WhatsAppNumber: content.Str("22997000000"),
		Phone:          content.Str("+229 97 00 00 00"),
		Address:        content.Str("45 Avenue Clozel, Cotonou"),
		Hours:          content.Str("Lun-Ven 8h-18h"),
	}}

	New().Apply(doc, page)

	assert.Equal(t, "https://wa.me/22997000000", attr(t, page, "#accueil .bg-accent", "href"))
	assert.Equal(t, "https://api.whatsapp.com/send?phone=22997000000", attr(t, page, `a[href*="api.whatsapp.com"]`, "href"))
	assert.Equal(t, "tel:+22997000000", attr(t, page, `a[href^="tel:"]`, "href"))

	paras, err := page.Query("#contact p")
	require.NoError(t, err)
	require.Len(t, paras, 3)
	assert.Equal(t, `<i class="fas fa-phone"></i> +229 97 00 00 00`, dom.InnerHTML(paras[0]))
	assert.Equal(t, " 45 Avenue Clozel, Cotonou", dom.Text(paras[1]))
	assert.Equal(t, " Lun-Ven 8h-18h", dom.Text(paras[2]))
}

func TestContactSlots(t *testing.T) {
	page := stockPage(t)
	doc := content.Document{Contact: &content.Contact{
		WhatsAppNumber: content.Str("22991111111"),
		Address:        content.Str("Rue 12, Porto-Novo"),
	}}

	New().Apply(doc, page)

	assert.Equal(t, " Rue 12, Porto-Novo", text(t, page, `[data-content="contact.address"]`))
	assert.Equal(t, "22991111111", text(t, page, `[data-content="contact.whatsappNumber"]`))
	assert.Equal(t, "https://wa.me/22991111111", attr(t, page, `[data-content="hero.whatsappButton"]`, "href"))
	assert.Contains(t, text(t, page, `[data-content="contact.hours"]`), "Lun-Sam...")
}

func TestApplyIsIdempotent(t *testing.T) {
	doc := content.Default()
	doc.Hero.Specialties = []string{"Coupe", "Couleur"}
	doc.Hero.BackgroundImage = content.Str("/images/hero.jpg")
	doc.Services.Items = []content.ServiceItem{{Title: content.Str("Coupe")}}

	for name, mk := range map[string]func(*testing.T) *dom.Document{
		"stock":  stockPage,
		"legacy": func(t *testing.T) *dom.Document { return parse(t, legacyPage) },
	} {
		t.Run(name, func(t *testing.T) {
			page := mk(t)
			a := New()
			a.Apply(doc, page)
			once := page.String()
			a.Apply(doc, page)
			assert.Equal(t, once, page.String())
		})
	}
}

func TestMissingTargetsAreSkipped(t *testing.T) {
	page := parse(t, "<html><head></head><body><p>rien</p></body></html>")
	report := New().Apply(content.Default(), page)

	assert.Empty(t, report.Failures)
	assert.Contains(t, report.Skipped, content.PathLogoText)
	assert.Contains(t, report.Skipped, content.PathHeroTitle)
	assert.Contains(t, report.Skipped, content.PathContactAddress)
	assert.Equal(t, "Salon Premium", page.Title())
}
