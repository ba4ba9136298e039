// Package editorform binds the editor's form controls to a content document.
package editorform

import (
	"git.home.luguber.info/inful/salonsite/internal/content"
)

// Form is a set of editor controls addressed by control id.
// Missing controls read as "".
type Form interface {
	Value(id string) string
	SetValue(id, value string)
}

// Binding ties one form control to one document field.
type Binding struct {
	ID   string
	Path string
	// Default is shown when the document has no value for Path.
	Default string
}

// Bindings lists every bound control, in form order.
var Bindings = []Binding{
	{ID: "site_title", Path: content.PathSiteTitle},
	{ID: "logo_text", Path: content.PathLogoText},
	{ID: "primary_color", Path: content.PathPrimaryColor, Default: content.DefaultPrimaryColor},
	{ID: "secondary_color", Path: content.PathSecondaryColor, Default: content.DefaultSecondaryColor},
	{ID: "accent_color", Path: content.PathAccentColor, Default: content.DefaultAccentColor},
	{ID: "hero_title", Path: content.PathHeroTitle},
	{ID: "hero_subtitle", Path: content.PathHeroSubtitle},
	{ID: "cta_button_text", Path: content.PathCTAText},
	{ID: "whatsapp_button_text", Path: content.PathWhatsAppText},
	{ID: "services_title", Path: content.PathServicesTitle},
	{ID: "services_subtitle", Path: content.PathServicesSubtitle},
	{ID: "whatsapp_number", Path: content.PathContactWhatsApp},
	{ID: "phone_number", Path: content.PathContactPhone},
	{ID: "address", Path: content.PathContactAddress},
	{ID: "hours", Path: content.PathContactHours},
}

// Populate writes each bound field of doc into its control.
func Populate(f Form, doc content.Document) {
	for _, b := range Bindings {
		f.SetValue(b.ID, content.Get(doc, b.Path).UnwrapOr(b.Default))
	}
}

// Extract reads every bound control into a new document. All sections are
// constructed, even when every control is empty.
func Extract(f Form) content.Document {
	var doc content.Document
	ExtractInto(f, &doc)
	return doc
}

// ExtractInto overwrites the bound fields of doc from the form and leaves every
// other field (background image, specialties, services items, links) as it was.
func ExtractInto(f Form, doc *content.Document) {
	for _, b := range Bindings {
		// Bindings only name known paths.
		_ = content.Set(doc, b.Path, f.Value(b.ID))
	}
}
