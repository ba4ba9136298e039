package commands

import (
	"fmt"
	"os"

	"git.home.luguber.info/inful/salonsite/internal/content"
	"git.home.luguber.info/inful/salonsite/internal/foundation/errors"
)

// ValidateCmd implements the 'validate' command. The configuration is always
// checked; a content file given as argument is decoded strictly and its field
// formats checked.
type ValidateCmd struct {
	Content string `arg:"" optional:"" help:"Content file to check" type:"path"`
}

func (v *ValidateCmd) Run(g *Global, root *CLI) error {
	if _, err := root.LoadConfig(); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(g.Out, "configuration valid")
	if v.Content == "" {
		return nil
	}

	data, err := os.ReadFile(v.Content)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "read content file").
			WithContext("path", v.Content).Build()
	}
	doc, err := content.Decode(data)
	if err != nil {
		return err
	}
	if err := content.Validate(doc); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.Out, "%s valid\n", v.Content)
	return nil
}
