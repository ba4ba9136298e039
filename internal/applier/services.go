package applier

import (
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/salonsite/internal/content"
	"git.home.luguber.info/inful/salonsite/internal/dom"
)

func applyServices(r *run, services *content.Services) {
	if services == nil {
		return
	}
	services.Title.IfSome(func(title string) {
		r.setText(r.slotFirst("services", content.PathServicesTitle, "#services h2"), content.PathServicesTitle, title)
	})
	services.Subtitle.IfSome(func(subtitle string) {
		r.setText(r.slotFirst("services", content.PathServicesSubtitle, "#services h2 + p", "#services p"), content.PathServicesSubtitle, subtitle)
	})
	if len(services.Items) == 0 {
		return
	}

	cards := r.query("services", slotSelector(content.PathServicesItems)+" > *")
	if len(cards) == 0 {
		cards = r.query("services", "#services .service-card")
	}
	for i, item := range services.Items {
		if i >= len(cards) {
			r.report.Dropped += len(services.Items) - i
			break
		}
		applyServiceItem(cards[i], item)
	}
	r.applied(content.PathServicesItems)
}

// applyServiceItem updates the card's icon image, heading and description where present.
func applyServiceItem(card *html.Node, item content.ServiceItem) {
	img := first(card, "img")
	item.Icon.IfSome(func(icon string) {
		if img != nil {
			dom.SetAttr(img, "src", icon)
		}
	})
	item.Title.IfSome(func(title string) {
		if img != nil {
			dom.SetAttr(img, "alt", title)
		}
		if h := first(card, "h3"); h != nil {
			dom.SetText(h, title)
		}
	})
	item.Description.IfSome(func(desc string) {
		if p := first(card, "p"); p != nil {
			dom.SetText(p, desc)
		}
	})
}

func first(n *html.Node, selector string) *html.Node {
	nodes, err := dom.QueryWithin(n, selector)
	if err != nil || len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}
