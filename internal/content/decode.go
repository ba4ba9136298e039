package content

import (
	"bytes"
	"encoding/json"
	"regexp"

	"git.home.luguber.info/inful/salonsite/internal/foundation"
	"git.home.luguber.info/inful/salonsite/internal/foundation/errors"
)

// Decode parses stored content. Anything that is not a JSON object whose known
// sections have the expected shape is reported as a read_malformed error.
// Unknown top-level keys are ignored.
func Decode(data []byte) (Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Document{}, errors.NewError(errors.CategoryNotFound, "content is empty").Build()
	}
	if trimmed[0] != '{' {
		return Document{}, errors.MalformedContentError("content is not a JSON object").Build()
	}
	var doc Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return Document{}, errors.WrapError(err, errors.CategoryReadMalformed, "decode content").
			Warning().
			Build()
	}
	return doc, nil
}

// Encode is the inverse of Decode.
func Encode(doc Document) ([]byte, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "encode content").Build()
	}
	return b, nil
}

var (
	hexColor    = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	phoneDigits = regexp.MustCompile(`^\+?[0-9 ]{6,20}$`)
	waNumber    = regexp.MustCompile(`^[0-9]{6,15}$`)
)

// Validate checks field formats an operator is likely to get wrong. It is advisory:
// the store and the applier accept documents that fail it.
func Validate(doc Document) error {
	res := foundation.Valid()
	check := func(v foundation.Validator[string], t Text) {
		t.IfSome(func(s string) { res = res.Combine(v(s)) })
	}
	if doc.Theme != nil {
		check(foundation.MatchesPattern("theme.primaryColor", hexColor, "must be a #rrggbb color"), doc.Theme.PrimaryColor)
		check(foundation.MatchesPattern("theme.secondaryColor", hexColor, "must be a #rrggbb color"), doc.Theme.SecondaryColor)
		check(foundation.MatchesPattern("theme.accentColor", hexColor, "must be a #rrggbb color"), doc.Theme.AccentColor)
	}
	if doc.Site != nil {
		check(foundation.MaxLength("site.title", 120), doc.Site.Title)
	}
	if doc.Contact != nil {
		check(foundation.MatchesPattern("contact.phone", phoneDigits, "must contain digits and spaces only"), doc.Contact.Phone)
		check(foundation.MatchesPattern("contact.whatsappNumber", waNumber, "must be digits only, with country code"), doc.Contact.WhatsAppNumber)
	}
	return res.ToError()
}
