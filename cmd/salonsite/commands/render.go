package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/salonsite/internal/applier"
	"git.home.luguber.info/inful/salonsite/internal/config"
	"git.home.luguber.info/inful/salonsite/internal/content"
	"git.home.luguber.info/inful/salonsite/internal/foundation/errors"
	"git.home.luguber.info/inful/salonsite/internal/metrics"
	"git.home.luguber.info/inful/salonsite/internal/preview"
	"git.home.luguber.info/inful/salonsite/internal/site"
)

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	Input  string `short:"i" help:"Content file to render instead of the configured backend" type:"existingfile"`
	Output string `short:"o" help:"Write the page here instead of stdout"`
}

func (r *RenderCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	ctx := context.Background()
	doc, err := loadDocument(ctx, cfg, g.Logger, r.Input)
	if err != nil {
		return err
	}
	page, err := renderPage(cfg, doc, g.Logger)
	if err != nil {
		return err
	}
	return writeOutput(g.Out, r.Output, page)
}

// loadDocument reads input strictly when given, otherwise loads from the
// configured backend, which substitutes the default for bad content.
func loadDocument(ctx context.Context, cfg *config.Config, logger *slog.Logger, input string) (content.Document, error) {
	if input != "" {
		data, err := os.ReadFile(input)
		if err != nil {
			return content.Document{}, errors.WrapError(err, errors.CategoryFileSystem, "read content file").
				WithContext("path", input).Build()
		}
		return content.Decode(data)
	}
	res := &resources{}
	defer res.Close()
	store, err := res.openStore(ctx, cfg, logger, metrics.NoopRecorder{})
	if err != nil {
		return content.Document{}, err
	}
	return store.Load(ctx), nil
}

func renderPage(cfg *config.Config, doc content.Document, logger *slog.Logger) ([]byte, error) {
	tmpl, err := site.Page(cfg.Server.SiteDir, site.IndexPage)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "read main page").Build()
	}
	return preview.Render(tmpl, doc, applier.New(applier.WithLogger(logger)), "")
}

// writeOutput writes data to path, or to out when path is empty or "-".
func writeOutput(out io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := out.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "write output").WithContext("path", path).Build()
	}
	return nil
}
