package content

// Default theme colors, also used by the editor color pickers when a field is missing.
const (
	DefaultPrimaryColor   = "#ec7014"
	DefaultSecondaryColor = "#0f172a"
	DefaultAccentColor    = "#22c55e"
)

// StoreKey is the key under which key-value backends keep the document.
const StoreKey = "salon_content"

// Default returns a fresh copy of the built-in document shown before anything is saved.
func Default() Document {
	return Document{
		Site: &Site{
			Title: Str("Salon Premium"),
			Logo:  &Logo{Text: Str("Salon Premium"), Icon: Str("fas fa-cut")},
		},
		Theme: &Theme{
			PrimaryColor:   Str(DefaultPrimaryColor),
			SecondaryColor: Str(DefaultSecondaryColor),
			AccentColor:    Str(DefaultAccentColor),
		},
		Hero: &Hero{
			Title:          Str("L'Excellence en Coiffure"),
			Subtitle:       Str("Découvrez une expérience unique..."),
			CTAButton:      &Button{Text: Str("Prendre RDV"), Link: Str("#contact")},
			WhatsAppButton: &Button{Text: Str("WhatsApp"), Link: Str("https://wa.me/22900000000")},
		},
		Services: &Services{
			Title:    Str("Nos Services Premium"),
			Subtitle: Str("Découvrez notre gamme..."),
		},
		Contact: &Contact{
			WhatsAppNumber: Str("22900000000"),
			Phone:          Str("+229 00 00 00 00"),
			Address:        Str("123 Avenue..."),
			Hours:          Str("Lun-Sam..."),
		},
	}
}
