package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"path/filepath"
	"syscall"

	"git.home.luguber.info/inful/salonsite/internal/config"
	"git.home.luguber.info/inful/salonsite/internal/eventstore"
	"git.home.luguber.info/inful/salonsite/internal/history"
	"git.home.luguber.info/inful/salonsite/internal/logfields"
	"git.home.luguber.info/inful/salonsite/internal/metrics"
	"git.home.luguber.info/inful/salonsite/internal/preview"
	"git.home.luguber.info/inful/salonsite/internal/scheduler"
	"git.home.luguber.info/inful/salonsite/internal/server"
	"git.home.luguber.info/inful/salonsite/internal/site"
	"git.home.luguber.info/inful/salonsite/internal/watch"
)

// recentActivity bounds the entries kept by the activity projection.
const recentActivity = 50

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Host    string `help:"Listen address (overrides server.host)"`
	Port    int    `short:"p" help:"Listen port (overrides server.port and PORT)"`
	SiteDir string `name:"site-dir" help:"Directory with pages and assets overriding the embedded ones"`
	Backend string `short:"b" help:"Content backend: file, memory, sqlite, nats or remote"`
	Watch   bool   `short:"w" help:"Push external edits of the content file and the main page to the preview"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if err := s.apply(cfg); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return RunServe(ctx, cfg, g.Logger)
}

// apply overlays the command flags on cfg and validates the result.
func (s *ServeCmd) apply(cfg *config.Config) error {
	if s.Host != "" {
		cfg.Server.Host = s.Host
	}
	if s.Port != 0 {
		cfg.Server.Port = s.Port
	}
	if s.SiteDir != "" {
		cfg.Server.SiteDir = s.SiteDir
	}
	if s.Backend != "" {
		cfg.Content.Backend = config.Backend(s.Backend)
		if b := config.NormalizeBackend(s.Backend); b != "" {
			cfg.Content.Backend = b
		}
	}
	if s.Watch {
		cfg.Content.Watch = true
	}
	return config.Validate(cfg)
}

// RunServe wires the configured backends into a server and serves until ctx is done.
func RunServe(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	res := &resources{}
	defer res.Close()

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var opts []server.Option
	opts = append(opts, server.WithLogger(logger))
	if cfg.Metrics.Enabled {
		reg := metrics.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
		opts = append(opts, server.WithRegistry(reg), server.WithRecorder(recorder))
	}

	store, err := res.openStore(ctx, cfg, logger, recorder)
	if err != nil {
		return err
	}

	if cfg.Events.Enabled {
		journal, err := openJournal(ctx, res, cfg, logger)
		if err != nil {
			return err
		}
		opts = append(opts, server.WithJournal(journal))
	}

	if cfg.History.Enabled {
		repo, err := history.Open(cfg.History.Dir, "", history.Author{
			Name:  cfg.History.AuthorName,
			Email: cfg.History.AuthorEmail,
		}, logger)
		if err != nil {
			return err
		}
		opts = append(opts, server.WithHistory(repo))
	}

	if cfg.NATS.Preview {
		bus, err := res.natsBus(cfg)
		if err != nil {
			return err
		}
		opts = append(opts, server.WithPreviewTransport(preview.NewNATSChannel(bus.Conn, cfg.NATS.PreviewSubject,
			preview.WithLogger(logger), preview.WithRecorder(recorder))))
	}

	srv, err := server.New(ctx, cfg, store, opts...)
	if err != nil {
		return err
	}

	if cfg.Content.Watch {
		if err := startWatcher(ctx, res, cfg, srv, logger); err != nil {
			return err
		}
	}

	return srv.Run(ctx)
}

// openJournal opens the audit log, replays it into the activity projection and
// schedules retention pruning.
func openJournal(ctx context.Context, res *resources, cfg *config.Config, logger *slog.Logger) (*eventstore.Journal, error) {
	store, err := eventstore.NewSQLiteStore(cfg.Events.Path)
	if err != nil {
		return nil, err
	}
	res.onClose(func() {
		if err := store.Close(); err != nil {
			logger.Warn("Closing event store failed", logfields.Error(err))
		}
	})

	projection := eventstore.NewActivityProjection(store, recentActivity)
	if err := projection.Rebuild(ctx); err != nil {
		logger.Warn("Activity replay failed, starting empty", logfields.Error(err))
	}

	sched, err := scheduler.New(logger)
	if err != nil {
		return nil, err
	}
	if _, err := sched.ScheduleRetention(cfg.Events.PruneInterval, cfg.Events.Retention, store); err != nil {
		return nil, err
	}
	sched.Start()
	res.onClose(func() {
		if err := sched.Stop(); err != nil {
			logger.Warn("Stopping scheduler failed", logfields.Error(err))
		}
	})

	return eventstore.NewJournal(store, projection, logger), nil
}

// startWatcher pushes external edits of the content file and the main page template
// to the running server.
func startWatcher(ctx context.Context, res *resources, cfg *config.Config, srv *server.Server, logger *slog.Logger) error {
	w, err := watch.New(watch.DefaultDebounce, logger)
	if err != nil {
		return err
	}
	res.onClose(func() { _ = w.Close() })

	if cfg.Content.Backend == config.BackendFile {
		if err := w.Watch(cfg.Content.File, func(ctx context.Context, _ string) { srv.ContentChanged(ctx) }); err != nil {
			return err
		}
	}
	if cfg.Server.SiteDir != "" {
		page := filepath.Join(cfg.Server.SiteDir, site.IndexPage)
		if err := w.Watch(page, func(ctx context.Context, _ string) { srv.ReloadTemplates(ctx) }); err != nil {
			return err
		}
	}
	w.Start(ctx)
	return nil
}
