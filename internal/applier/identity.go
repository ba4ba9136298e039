package applier

import (
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/salonsite/internal/content"
	"git.home.luguber.info/inful/salonsite/internal/dom"
)

func applyIdentity(r *run, site *content.Site) {
	if site == nil {
		return
	}
	site.Title.IfSome(func(title string) {
		r.page.SetTitle(title)
		for _, n := range r.query("site", slotSelector(content.PathSiteTitle)) {
			dom.SetText(n, title)
		}
		r.applied(content.PathSiteTitle)
	})
	if site.Logo == nil {
		return
	}
	site.Logo.Text.IfSome(func(text string) {
		if nodes := r.slot("site", content.PathLogoText, ".logo-text"); len(nodes) > 0 {
			r.setText(nodes, content.PathLogoText, text)
			return
		}
		heading := r.query("site", "header h1, nav h1")
		if len(heading) == 0 {
			r.skipped(content.PathLogoText)
			return
		}
		rebuildHeading(heading[0], text)
		r.applied(content.PathLogoText)
	})
	site.Logo.Icon.IfSome(func(icon string) {
		nodes := r.slot("site", content.PathLogoIcon, "header h1 > i, nav h1 > i")
		if len(nodes) == 0 {
			r.skipped(content.PathLogoIcon)
			return
		}
		for _, n := range nodes {
			dom.SetAttr(n, "class", icon)
		}
		r.applied(content.PathLogoIcon)
	})
}

// rebuildHeading keeps the heading's icon, drops everything else and appends the logo text.
func rebuildHeading(h *html.Node, text string) {
	icon := dom.FirstChildElement(h, "i")
	dom.RemoveChildren(h)
	if icon == nil {
		h.AppendChild(dom.NewText(text))
		return
	}
	h.AppendChild(icon)
	h.AppendChild(dom.NewText(" " + text))
}
