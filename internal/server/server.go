// Package server is the salonsite HTTP server: the rendered site, the editor and
// its JSON API, the preview stream, and operational endpoints.
package server

import (
	"context"
	stderrors "errors"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/salonsite/internal/applier"
	"git.home.luguber.info/inful/salonsite/internal/config"
	"git.home.luguber.info/inful/salonsite/internal/content"
	"git.home.luguber.info/inful/salonsite/internal/contentstore"
	"git.home.luguber.info/inful/salonsite/internal/eventstore"
	"git.home.luguber.info/inful/salonsite/internal/foundation/errors"
	"git.home.luguber.info/inful/salonsite/internal/history"
	"git.home.luguber.info/inful/salonsite/internal/logfields"
	"git.home.luguber.info/inful/salonsite/internal/metrics"
	"git.home.luguber.info/inful/salonsite/internal/preview"
	"git.home.luguber.info/inful/salonsite/internal/server/middleware"
	"git.home.luguber.info/inful/salonsite/internal/site"
)

// PreviewTransport carries preview messages between server instances.
type PreviewTransport interface {
	preview.Sender
	Subscribe(dst preview.Sender) (func() error, error)
}

// Option configures optional Server behavior.
type Option func(*Server)

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

func WithRecorder(r metrics.Recorder) Option {
	return func(s *Server) { s.metrics = metrics.OrNoop(r) }
}

// WithRegistry exposes reg on the configured metrics path.
func WithRegistry(reg *prom.Registry) Option {
	return func(s *Server) { s.registry = reg }
}

// WithJournal records editor actions in the audit log.
func WithJournal(j *eventstore.Journal) Option {
	return func(s *Server) { s.journal = j }
}

// WithHistory commits every saved document to h.
func WithHistory(h *history.Repo) Option {
	return func(s *Server) { s.history = h }
}

// WithPreviewTransport routes preview messages through t instead of delivering
// them in-process. Messages arriving on t reach this server's preview.
func WithPreviewTransport(t PreviewTransport) Option {
	return func(s *Server) { s.transport = t }
}

// Server holds the router, the content store and the editor session.
type Server struct {
	cfg       *config.Config
	store     contentstore.Store
	logger    *slog.Logger
	metrics   metrics.Recorder
	registry  *prom.Registry
	errs      *errors.HTTPErrorAdapter
	applier   *applier.Applier
	hub       *preview.Hub
	receiver  *preview.Receiver
	sender    preview.Sender
	transport PreviewTransport
	unsub     func() error
	journal   *eventstore.Journal
	history   *history.Repo
	assets    fs.FS
	started   time.Time

	// mu guards the page templates and the editor session document.
	mu     sync.RWMutex
	index  []byte
	editor []byte
	draft  content.Document

	router chi.Router
}

// New loads the page templates and the current document and wires every route.
func New(ctx context.Context, cfg *config.Config, store contentstore.Store, opts ...Option) (*Server, error) {
	s := &Server{
		cfg:     cfg,
		store:   store,
		logger:  slog.Default(),
		metrics: metrics.NoopRecorder{},
		started: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.errs = errors.NewHTTPErrorAdapter(s.logger)
	s.applier = applier.New(applier.WithLogger(s.logger), applier.WithRecorder(s.metrics))
	s.hub = preview.NewHub(preview.WithLogger(s.logger), preview.WithRecorder(s.metrics))
	s.assets = site.Assets(cfg.Server.SiteDir)

	if err := s.loadTemplates(); err != nil {
		return nil, err
	}
	s.receiver = preview.NewReceiver(s.index, s.applier, site.PreviewScript,
		preview.WithLogger(s.logger), preview.WithRecorder(s.metrics))

	s.draft = store.Load(ctx)
	if err := s.receiver.MarkReady(s.draft); err != nil {
		return nil, err
	}

	local := preview.Fanout{s.receiver, s.hub}
	s.sender = local
	if s.transport != nil {
		unsub, err := s.transport.Subscribe(local)
		if err != nil {
			return nil, err
		}
		s.unsub = unsub
		s.sender = s.transport
	}

	s.router = s.routes()
	return s, nil
}

func (s *Server) loadTemplates() error {
	index, err := site.Page(s.cfg.Server.SiteDir, site.IndexPage)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "read main page").Build()
	}
	editor, err := site.Page(s.cfg.Server.SiteDir, site.EditorPage)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "read editor page").Build()
	}
	s.mu.Lock()
	s.index, s.editor = index, editor
	s.mu.Unlock()
	return nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Chain(s.logger, s.errs, s.metrics)...)

	// Pages
	r.Get("/", s.handleIndex)
	r.Get("/index.html", s.handleIndex)
	r.Get("/editor", s.handleEditor)
	r.Get("/editor.html", s.handleEditor)
	r.Get("/preview", s.handlePreviewPage)

	// Static files
	static := http.FileServerFS(s.assets)
	for _, prefix := range []string{"/css/*", "/js/*", "/images/*", "/assets/*"} {
		r.Handle(prefix, static)
	}

	// Content
	r.Get("/content.json", s.handleContentJSON)
	r.Route("/api", func(r chi.Router) {
		r.Get("/load-content", s.handleLoadContent)
		r.Post("/save-content", s.handleSaveContent)
		r.Post("/save-form", s.handleSaveForm)

		r.Post("/preview", s.handlePreview)
		r.Post("/preview/form", s.handlePreviewForm)
		r.Get("/preview/events", s.hub.ServeHTTP)

		r.Post("/reset", s.handleReset)
		r.Post("/upload-image", s.handleUpload)
		r.Get("/export", s.handleExport)
		r.Get("/history", s.handleHistory)
		r.Get("/events", s.handleActivity)
	})

	// Operations
	r.Get("/health", s.handleHealth)
	if s.cfg.Metrics.Enabled && s.registry != nil {
		r.Handle(s.cfg.Metrics.Path, metrics.HTTPHandler(s.registry))
	}

	r.NotFound(s.handleNotFound)
	return r
}

// ServeHTTP implements the http.Handler interface, delegating to the chi router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves on the configured address until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s,
		ReadHeaderTimeout: s.cfg.Server.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Serving salonsite", slog.String("addr", srv.Addr), logfields.Backend(string(s.cfg.Content.Backend)))
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return errors.WrapError(err, errors.CategoryNetwork, "listen").WithContext("addr", srv.Addr).Build()
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down")
	s.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "shutdown").Build()
	}
	return nil
}

// Close disconnects preview clients and the preview transport subscription.
func (s *Server) Close() {
	s.hub.Shutdown()
	if s.unsub != nil {
		if err := s.unsub(); err != nil {
			s.logger.Warn("Preview unsubscribe failed", logfields.Error(err))
		}
		s.unsub = nil
	}
}

// ReloadTemplates re-reads the pages from the site directory and re-renders the preview.
func (s *Server) ReloadTemplates(ctx context.Context) {
	if err := s.loadTemplates(); err != nil {
		s.logger.Warn("Template reload failed", logfields.Error(err))
		return
	}
	s.mu.RLock()
	index := s.index
	s.mu.RUnlock()
	if err := s.receiver.SetTemplate(index); err != nil {
		s.logger.Warn("Preview template swap failed", logfields.Error(err))
		return
	}
	s.hub.Send(ctx, preview.NewUpdate(s.receiver.Document()))
}

// ContentChanged reloads the document from the store after an external edit and
// pushes it to the editor session and the preview.
func (s *Server) ContentChanged(ctx context.Context) {
	doc := s.store.Load(ctx)
	s.setDraft(doc)
	s.send(ctx, preview.NewUpdate(doc), "watch", true)
}

func (s *Server) draftCopy() content.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draft.Clone()
}

func (s *Server) setDraft(doc content.Document) {
	s.mu.Lock()
	s.draft = doc.Clone()
	s.mu.Unlock()
}

func (s *Server) template() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

func (s *Server) send(ctx context.Context, msg preview.Message, source string, audit bool) {
	s.sender.Send(ctx, msg)
	if audit {
		ev, err := eventstore.NewPreviewSent(eventstore.NewCorrelationID(), msg.ID, string(msg.Type), source)
		s.journal.Record(ctx, ev, err)
	}
}
