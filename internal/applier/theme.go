package applier

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/salonsite/internal/content"
	"git.home.luguber.info/inful/salonsite/internal/dom"
)

type restyle struct {
	selector string
	property string
	darken   bool
}

var (
	primaryRules = []restyle{
		{".bg-primary", "background-color", false},
		{".text-primary", "color", false},
		{".border-primary", "border-color", false},
		// Runs after .bg-primary so the darkened shade wins on elements carrying both.
		{`.hover\:bg-primary-dark`, "background-color", true},
	}
	secondaryRules = []restyle{
		{".bg-secondary", "background-color", false},
		{".text-secondary", "color", false},
	}
	accentRules = []restyle{
		{".bg-accent", "background-color", false},
		{".text-accent", "color", false},
	}
)

func applyTheme(r *run, theme *content.Theme) {
	if theme == nil {
		return
	}
	root := r.page.Element()
	apply := func(color content.Text, path, variable string, rules []restyle) {
		color.IfSome(func(c string) {
			if root != nil {
				dom.SetStyle(root, variable, c)
				if path == content.PathPrimaryColor {
					dom.SetStyle(root, "--primary-dark-color", Darken(c, 10))
				}
			}
			for _, rule := range rules {
				value := c
				if rule.darken {
					value = Darken(c, 10)
				}
				for _, n := range r.query("theme", rule.selector) {
					dom.SetStyle(n, rule.property, value)
				}
			}
			r.applied(path)
		})
	}
	apply(theme.PrimaryColor, content.PathPrimaryColor, "--primary-color", primaryRules)
	apply(theme.SecondaryColor, content.PathSecondaryColor, "--secondary-color", secondaryRules)
	apply(theme.AccentColor, content.PathAccentColor, "--accent-color", accentRules)
}

// Darken lowers each RGB channel of a #rrggbb (or #rgb) color by round(2.55*percent),
// clamped to [0, 255]. Colors it cannot parse are returned unchanged.
func Darken(color string, percent float64) string {
	hex, ok := strings.CutPrefix(strings.TrimSpace(color), "#")
	if !ok {
		return color
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color
	}
	amount := int(math.Round(255 * percent / 100))
	channel := func(shift uint) int {
		c := int(v>>shift&0xff) - amount
		return min(max(c, 0), 255)
	}
	return fmt.Sprintf("#%02x%02x%02x", channel(16), channel(8), channel(0))
}
