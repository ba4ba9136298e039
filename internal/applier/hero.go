package applier

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/salonsite/internal/content"
	"git.home.luguber.info/inful/salonsite/internal/dom"
)

// Labels the stock markup uses for the hero buttons.
var (
	ctaLabels      = []string{"Prendre RDV", "Réserver"}
	whatsAppLabels = []string{"WhatsApp"}
)

const heroOverlay = "linear-gradient(rgba(15, 23, 42, 0.7), rgba(15, 23, 42, 0.7))"

func applyHero(r *run, hero *content.Hero) {
	if hero == nil {
		return
	}
	hero.Title.IfSome(func(title string) {
		nodes := r.slotFirst("hero", content.PathHeroTitle, "#accueil h1", ".hero h1")
		if len(nodes) == 0 {
			r.skipped(content.PathHeroTitle)
			return
		}
		setHeroTitle(nodes[0], title)
		r.applied(content.PathHeroTitle)
	})
	hero.Subtitle.IfSome(func(subtitle string) {
		r.setText(r.slotFirst("hero", content.PathHeroSubtitle, "#accueil p", ".hero p"), content.PathHeroSubtitle, subtitle)
	})
	applyButton(r, hero.CTAButton, "hero.ctaButton", content.PathCTAText, content.PathCTALink, ctaLabels)
	applyButton(r, hero.WhatsAppButton, "hero.whatsappButton", content.PathWhatsAppText, content.PathWhatsAppLink, whatsAppLabels)

	hero.BackgroundImage.IfSome(func(image string) {
		nodes := r.slotFirst("hero", content.PathHeroBackground, "#accueil", ".hero")
		if len(nodes) == 0 {
			r.skipped(content.PathHeroBackground)
			return
		}
		url := strings.ReplaceAll(image, "'", "%27")
		dom.SetStyle(nodes[0], "background", fmt.Sprintf("%s, url('%s')", heroOverlay, url))
		dom.SetStyle(nodes[0], "background-size", "cover")
		dom.SetStyle(nodes[0], "background-position", "center")
		r.applied(content.PathHeroBackground)
	})

	if hero.Specialties != nil {
		lists := r.slot("hero", content.PathHeroSpecialties, "#accueil ul", ".hero ul")
		if len(lists) == 0 {
			r.skipped(content.PathHeroSpecialties)
			return
		}
		for _, list := range lists {
			replaceList(list, hero.Specialties)
		}
		r.applied(content.PathHeroSpecialties)
	}
}

// setHeroTitle highlights the last word of titles longer than two words.
func setHeroTitle(n *html.Node, title string) {
	words := strings.Fields(title)
	if len(words) <= 2 {
		dom.SetText(n, title)
		return
	}
	dom.RemoveChildren(n)
	n.AppendChild(dom.NewText(strings.Join(words[:len(words)-1], " ") + " "))
	span := dom.NewElement("span", "class", "text-accent")
	span.AppendChild(dom.NewText(words[len(words)-1]))
	n.AppendChild(span)
}

// applyButton finds a hero button by slot, or by its current label, and updates it.
func applyButton(r *run, btn *content.Button, slot, textPath, linkPath string, labels []string) {
	if btn == nil {
		return
	}
	nodes := r.query("hero", slotSelector(slot))
	if len(nodes) == 0 {
		nodes = findByLabel(r.query("hero", "#accueil a, #accueil button, .hero a, .hero button"), labels)
	}
	btn.Text.IfSome(func(text string) {
		if len(nodes) == 0 {
			r.skipped(textPath)
			return
		}
		for _, n := range nodes {
			setLabel(n, text)
		}
		r.applied(textPath)
	})
	btn.Link.IfSome(func(link string) {
		if len(nodes) == 0 {
			r.skipped(linkPath)
			return
		}
		for _, n := range nodes {
			dom.SetAttr(n, "href", link)
		}
		r.applied(linkPath)
	})
}

func findByLabel(candidates []*html.Node, labels []string) []*html.Node {
	var out []*html.Node
	for _, n := range candidates {
		text := dom.Text(n)
		for _, label := range labels {
			if strings.Contains(text, label) {
				out = append(out, n)
				break
			}
		}
	}
	return out
}

// replaceList rebuilds the <li> children of list from items. The first existing item
// serves as a template for attributes and a leading icon.
func replaceList(list *html.Node, items []string) {
	var tmpl, icon *html.Node
	if first := dom.FirstChildElement(list, "li"); first != nil {
		tmpl = first
		icon = dom.FirstChildElement(first, "i")
	}
	dom.RemoveChildren(list)
	for _, item := range items {
		li := dom.NewElement("li")
		label := item
		if tmpl != nil {
			li.Attr = append(li.Attr, tmpl.Attr...)
		}
		if icon != nil {
			i := dom.NewElement("i")
			i.Attr = append(i.Attr, icon.Attr...)
			li.AppendChild(i)
			label = " " + item
		}
		li.AppendChild(dom.NewText(label))
		list.AppendChild(li)
	}
}
