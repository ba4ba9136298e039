// Package content defines the salon site content document, the fixed default
// document and the rules for decoding stored content.
package content

import (
	"encoding/json"

	"git.home.luguber.info/inful/salonsite/internal/foundation"
)

// Text is an optional string leaf. None means "leave this part of the page alone".
type Text = foundation.Option[string]

// Str returns a present Text.
func Str(s string) Text { return foundation.Some(s) }

// Document is the single source of truth for everything the site renders.
// Every section is optional and every field within a section is independently optional.
type Document struct {
	Site     *Site     `json:"site,omitempty"`
	Theme    *Theme    `json:"theme,omitempty"`
	Hero     *Hero     `json:"hero,omitempty"`
	Services *Services `json:"services,omitempty"`
	Contact  *Contact  `json:"contact,omitempty"`
}

type Site struct {
	Title Text  `json:"title,omitzero"`
	Logo  *Logo `json:"logo,omitempty"`
}

type Logo struct {
	Text Text `json:"text,omitzero"`
	Icon Text `json:"icon,omitzero"`
}

// UnmarshalJSON accepts both the object form and the older plain string form
// ("logo": "Salon Premium").
func (l *Logo) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = Logo{Text: Str(s)}
		return nil
	}
	type plain Logo
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*l = Logo(p)
	return nil
}

type Theme struct {
	PrimaryColor   Text `json:"primaryColor,omitzero"`
	SecondaryColor Text `json:"secondaryColor,omitzero"`
	AccentColor    Text `json:"accentColor,omitzero"`
}

type Hero struct {
	Title           Text    `json:"title,omitzero"`
	Subtitle        Text    `json:"subtitle,omitzero"`
	CTAButton       *Button `json:"ctaButton,omitempty"`
	WhatsAppButton  *Button `json:"whatsappButton,omitempty"`
	BackgroundImage Text    `json:"backgroundImage,omitzero"`
	// Specialties replaces the rendered list wholesale. nil means absent.
	Specialties []string `json:"specialties,omitzero"`
}

type Button struct {
	Text Text `json:"text,omitzero"`
	Link Text `json:"link,omitzero"`
}

type Services struct {
	Title    Text `json:"title,omitzero"`
	Subtitle Text `json:"subtitle,omitzero"`
	// Items align positionally with the service cards already on the page.
	Items []ServiceItem `json:"items,omitzero"`
}

// ServiceItem is one service card. Icon is an image URL.
type ServiceItem struct {
	Icon        Text `json:"icon,omitzero"`
	Title       Text `json:"title,omitzero"`
	Description Text `json:"description,omitzero"`
}

type Contact struct {
	WhatsAppNumber Text `json:"whatsappNumber,omitzero"`
	Phone          Text `json:"phone,omitzero"`
	Address        Text `json:"address,omitzero"`
	Hours          Text `json:"hours,omitzero"`
}

// Clone returns a deep copy of d.
func (d Document) Clone() Document {
	var out Document
	if d.Site != nil {
		s := *d.Site
		if s.Logo != nil {
			l := *s.Logo
			s.Logo = &l
		}
		out.Site = &s
	}
	if d.Theme != nil {
		t := *d.Theme
		out.Theme = &t
	}
	if d.Hero != nil {
		h := *d.Hero
		h.CTAButton = cloneButton(h.CTAButton)
		h.WhatsAppButton = cloneButton(h.WhatsAppButton)
		if h.Specialties != nil {
			h.Specialties = append([]string{}, h.Specialties...)
		}
		out.Hero = &h
	}
	if d.Services != nil {
		s := *d.Services
		if s.Items != nil {
			s.Items = append([]ServiceItem{}, s.Items...)
		}
		out.Services = &s
	}
	if d.Contact != nil {
		c := *d.Contact
		out.Contact = &c
	}
	return out
}

func cloneButton(b *Button) *Button {
	if b == nil {
		return nil
	}
	c := *b
	return &c
}

// MarshalIndent encodes d the way it is written to content.json.
func (d Document) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}
