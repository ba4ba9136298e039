// Package watch reports changes to individual files, debounced per file.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/salonsite/internal/foundation/errors"
	"git.home.luguber.info/inful/salonsite/internal/logfields"
)

// DefaultDebounce coalesces the bursts editors and atomic renames produce.
const DefaultDebounce = 200 * time.Millisecond

// Handler is called once per burst of changes to a watched file.
type Handler func(ctx context.Context, path string)

// Watcher watches files through their parent directories, which survives the
// file being replaced by rename.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *slog.Logger

	mu       sync.Mutex
	handlers map[string]Handler
	dirs     map[string]struct{}
	timers   map[string]*time.Timer
	stop     chan struct{}
	stopOnce sync.Once
}

func New(debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "create file watcher").Build()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		watcher:  fw,
		debounce: debounce,
		logger:   logger,
		handlers: map[string]Handler{},
		dirs:     map[string]struct{}{},
		timers:   map[string]*time.Timer{},
		stop:     make(chan struct{}),
	}, nil
}

// Watch registers h for changes to path. The file need not exist yet.
func (w *Watcher) Watch(path string, h Handler) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "resolve watched path").
			WithContext("path", path).Build()
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.dirs[dir]; !ok {
		if err := w.watcher.Add(dir); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "watch directory").
				WithContext("path", dir).Build()
		}
		w.dirs[dir] = struct{}{}
	}
	w.handlers[abs] = h
	return nil
}

// Start runs the event loop until ctx is done or Close is called.
func (w *Watcher) Start(ctx context.Context) {
	go w.loop(ctx)
}

func (w *Watcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			switch {
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create), event.Has(fsnotify.Rename):
				w.trigger(ctx, event.Name)
			case event.Has(fsnotify.Remove):
				w.logger.Warn("Watched file removed", logfields.Path(event.Name))
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("File watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) trigger(ctx context.Context, name string) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	h, ok := w.handlers[abs]
	if !ok {
		return
	}
	w.schedule(ctx, abs, h)
}

// schedule arms or pushes back the debounce timer for abs. w.mu must be held.
func (w *Watcher) schedule(ctx context.Context, abs string, h Handler) {
	// A timer that already fired is left to finish; its callback no longer owns the entry.
	if t, pending := w.timers[abs]; pending && t.Stop() {
		t.Reset(w.debounce)
		return
	}
	var t *time.Timer
	t = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		if w.timers[abs] == t {
			delete(w.timers, abs)
		}
		w.mu.Unlock()

		select {
		case <-w.stop:
			return
		default:
		}
		w.logger.Debug("Watched file changed", logfields.Path(abs))
		h(ctx, abs)
	})
	w.timers[abs] = t
}

// Close stops the loop, cancels pending callbacks and releases the watcher.
func (w *Watcher) Close() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stop)
		w.mu.Lock()
		for k, t := range w.timers {
			t.Stop()
			delete(w.timers, k)
		}
		w.mu.Unlock()
		err = w.watcher.Close()
	})
	return err
}
