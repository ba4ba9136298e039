package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/salonsite/internal/foundation/errors"
	"git.home.luguber.info/inful/salonsite/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int    `short:"n" default:"10" help:"Number of revisions to list"`
	Show  string `help:"Print the document saved in this revision"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return errors.ConfigError("content history is disabled (set history.enabled)").Build()
	}
	repo, err := history.Open(cfg.History.Dir, "", history.Author{}, g.Logger)
	if err != nil {
		return err
	}

	if h.Show != "" {
		data, err := repo.Show(h.Show)
		if err != nil {
			return err
		}
		_, err = g.Out.Write(data)
		return err
	}

	entries, err := repo.Log(h.Limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(g.Out, "no saved revisions")
		return nil
	}
	tw := tabwriter.NewWriter(g.Out, 0, 4, 2, ' ', 0)
	for _, e := range entries {
		hash := e.Hash
		if len(hash) > 8 {
			hash = hash[:8]
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", hash, e.When.Local().Format(time.DateTime), e.Author, e.Message)
	}
	return tw.Flush()
}
