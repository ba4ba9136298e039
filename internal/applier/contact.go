package applier

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/salonsite/internal/content"
	"git.home.luguber.info/inful/salonsite/internal/dom"
)

var (
	waMeNumber    = regexp.MustCompile(`(wa\.me/)\+?[0-9]+`)
	waPhoneNumber = regexp.MustCompile(`(phone=)\+?[0-9]+`)
)

// Text fragments that identify contact paragraphs in markup without declared slots.
// A value that happens to contain another field's fragment can be picked up by the
// wrong field on the next apply.
var (
	phonePlaceholders = []string{"+229 XX XX XX XX", "+229 00 00 00 00"}
	addressHints      = []string{"Avenue", "Cotonou"}
	hoursHints        = []string{"Lun", "Sam"}
)

const contactParagraphs = "#contact p, footer p"

func applyContact(r *run, contact *content.Contact) {
	if contact == nil {
		return
	}
	contact.WhatsAppNumber.IfSome(func(number string) {
		links := r.query("contact", `a[href*="wa.me/"], a[href*="api.whatsapp.com"]`)
		for _, a := range links {
			href, _ := dom.Attr(a, "href")
			repl := "${1}" + strings.ReplaceAll(number, "$", "$$")
			href = waMeNumber.ReplaceAllString(href, repl)
			href = waPhoneNumber.ReplaceAllString(href, repl)
			dom.SetAttr(a, "href", href)
		}
		slots := r.query("contact", slotSelector(content.PathContactWhatsApp))
		for _, n := range slots {
			setLabel(n, number)
		}
		if len(links)+len(slots) == 0 {
			r.skipped(content.PathContactWhatsApp)
			return
		}
		r.applied(content.PathContactWhatsApp)
	})
	contact.Phone.IfSome(func(phone string) {
		targets := r.query("contact", slotSelector(content.PathContactPhone))
		if len(targets) == 0 {
			targets = paragraphsContaining(r, phonePlaceholders)
		}
		for _, n := range targets {
			setLabel(n, phone)
		}
		tel := r.query("contact", `a[href^="tel:"]`)
		for _, a := range tel {
			dom.SetAttr(a, "href", "tel:"+strings.ReplaceAll(phone, " ", ""))
		}
		if len(targets)+len(tel) == 0 {
			r.skipped(content.PathContactPhone)
			return
		}
		r.applied(content.PathContactPhone)
	})
	contact.Address.IfSome(func(address string) {
		setContactParagraph(r, content.PathContactAddress, address, addressHints)
	})
	contact.Hours.IfSome(func(hours string) {
		setContactParagraph(r, content.PathContactHours, hours, hoursHints)
	})
}

func setContactParagraph(r *run, path, value string, hints []string) {
	targets := r.query("contact", slotSelector(path))
	if len(targets) == 0 {
		targets = paragraphsContaining(r, hints)
	}
	if len(targets) == 0 {
		r.skipped(path)
		return
	}
	for _, n := range targets {
		setLabel(n, value)
	}
	r.applied(path)
}

func paragraphsContaining(r *run, fragments []string) []*html.Node {
	var out []*html.Node
	for _, p := range r.query("contact", contactParagraphs) {
		if _, declared := dom.Attr(p, SlotAttr); declared {
			continue
		}
		text := dom.Text(p)
		for _, f := range fragments {
			if strings.Contains(text, f) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
