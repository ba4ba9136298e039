package commands

import (
	"bytes"
	"context"
	"fmt"

	"git.home.luguber.info/inful/salonsite/internal/export"
)

// ExportCmd implements the 'export' command.
type ExportCmd struct {
	Format string `short:"f" enum:"json,zip" default:"zip" help:"Bundle format (json or zip)"`
	Input  string `short:"i" help:"Content file to export instead of the configured backend" type:"existingfile"`
	Output string `short:"o" help:"Bundle path, or - for stdout (defaults to the download name)"`
}

func (e *ExportCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	doc, err := loadDocument(context.Background(), cfg, g.Logger, e.Input)
	if err != nil {
		return err
	}
	page, err := renderPage(cfg, doc, g.Logger)
	if err != nil {
		return err
	}
	bundle, err := export.New(doc, page)
	if err != nil {
		return err
	}

	format := export.Format(e.Format)
	var buf bytes.Buffer
	if err := bundle.WriteTo(&buf, format); err != nil {
		return err
	}
	out := e.Output
	if out == "" {
		out = bundle.Filename(format)
	}
	if err := writeOutput(g.Out, out, buf.Bytes()); err != nil {
		return err
	}
	if out != "-" {
		_, _ = fmt.Fprintf(g.Out, "Exported %s\n", out)
	}
	return nil
}
