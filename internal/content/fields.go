package content

import (
	"slices"

	"git.home.luguber.info/inful/salonsite/internal/foundation/errors"
)

// Field paths addressable as plain strings.
const (
	PathSiteTitle        = "site.title"
	PathLogoText         = "site.logo.text"
	PathLogoIcon         = "site.logo.icon"
	PathPrimaryColor     = "theme.primaryColor"
	PathSecondaryColor   = "theme.secondaryColor"
	PathAccentColor      = "theme.accentColor"
	PathHeroTitle        = "hero.title"
	PathHeroSubtitle     = "hero.subtitle"
	PathCTAText          = "hero.ctaButton.text"
	PathCTALink          = "hero.ctaButton.link"
	PathWhatsAppText     = "hero.whatsappButton.text"
	PathWhatsAppLink     = "hero.whatsappButton.link"
	PathHeroBackground   = "hero.backgroundImage"
	PathServicesTitle    = "services.title"
	PathServicesSubtitle = "services.subtitle"
	PathContactWhatsApp  = "contact.whatsappNumber"
	PathContactPhone     = "contact.phone"
	PathContactAddress   = "contact.address"
	PathContactHours     = "contact.hours"
	PathHeroSpecialties  = "hero.specialties"
	PathServicesItems    = "services.items"
)

// ref returns the address of a string leaf, creating the containers on the way.
type ref func(*Document) *Text

var fields = map[string]ref{
	PathSiteTitle:        func(d *Document) *Text { return &site(d).Title },
	PathLogoText:         func(d *Document) *Text { return &logo(d).Text },
	PathLogoIcon:         func(d *Document) *Text { return &logo(d).Icon },
	PathPrimaryColor:     func(d *Document) *Text { return &theme(d).PrimaryColor },
	PathSecondaryColor:   func(d *Document) *Text { return &theme(d).SecondaryColor },
	PathAccentColor:      func(d *Document) *Text { return &theme(d).AccentColor },
	PathHeroTitle:        func(d *Document) *Text { return &hero(d).Title },
	PathHeroSubtitle:     func(d *Document) *Text { return &hero(d).Subtitle },
	PathCTAText:          func(d *Document) *Text { return &button(&hero(d).CTAButton).Text },
	PathCTALink:          func(d *Document) *Text { return &button(&hero(d).CTAButton).Link },
	PathWhatsAppText:     func(d *Document) *Text { return &button(&hero(d).WhatsAppButton).Text },
	PathWhatsAppLink:     func(d *Document) *Text { return &button(&hero(d).WhatsAppButton).Link },
	PathHeroBackground:   func(d *Document) *Text { return &hero(d).BackgroundImage },
	PathServicesTitle:    func(d *Document) *Text { return &services(d).Title },
	PathServicesSubtitle: func(d *Document) *Text { return &services(d).Subtitle },
	PathContactWhatsApp:  func(d *Document) *Text { return &contact(d).WhatsAppNumber },
	PathContactPhone:     func(d *Document) *Text { return &contact(d).Phone },
	PathContactAddress:   func(d *Document) *Text { return &contact(d).Address },
	PathContactHours:     func(d *Document) *Text { return &contact(d).Hours },
}

// Paths lists every string leaf path in sorted order.
func Paths() []string {
	out := make([]string, 0, len(fields))
	for p := range fields {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// Get reads a string leaf without creating containers.
func Get(doc Document, path string) Text {
	r, ok := fields[path]
	if !ok {
		return Text{}
	}
	// Work on a copy so absent containers stay absent in the caller's document.
	c := doc.Clone()
	return *r(&c)
}

// Set writes a string leaf, creating any missing sections.
func Set(doc *Document, path, value string) error {
	r, ok := fields[path]
	if !ok {
		return errors.ValidationError("unknown content field").WithContext("path", path).Build()
	}
	*r(doc) = Str(value)
	return nil
}

func site(d *Document) *Site {
	if d.Site == nil {
		d.Site = &Site{}
	}
	return d.Site
}

func logo(d *Document) *Logo {
	s := site(d)
	if s.Logo == nil {
		s.Logo = &Logo{}
	}
	return s.Logo
}

func theme(d *Document) *Theme {
	if d.Theme == nil {
		d.Theme = &Theme{}
	}
	return d.Theme
}

func hero(d *Document) *Hero {
	if d.Hero == nil {
		d.Hero = &Hero{}
	}
	return d.Hero
}

func button(b **Button) *Button {
	if *b == nil {
		*b = &Button{}
	}
	return *b
}

func services(d *Document) *Services {
	if d.Services == nil {
		d.Services = &Services{}
	}
	return d.Services
}

func contact(d *Document) *Contact {
	if d.Contact == nil {
		d.Contact = &Contact{}
	}
	return d.Contact
}
