// Package contentstore loads and saves the content document.
//
// Load never fails: an absent, unreadable or malformed stored value yields the
// default document. Save reports failure as a write_failed error and never panics.
package contentstore

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/salonsite/internal/content"
	"git.home.luguber.info/inful/salonsite/internal/logfields"
	"git.home.luguber.info/inful/salonsite/internal/metrics"
	"git.home.luguber.info/inful/salonsite/internal/retry"
)

// Store is the persistence contract shared by every backend.
type Store interface {
	Load(ctx context.Context) content.Document
	Save(ctx context.Context, doc content.Document) error
}

// Source says where a loaded document came from.
type Source string

const (
	SourceStored     Source = "stored"
	SourceAbsent     Source = "absent"
	SourceMalformed  Source = "malformed"
	SourceUnreadable Source = "unreadable"
)

// LoadResult is a Load with the reason a default was substituted.
type LoadResult struct {
	Document content.Document
	Source   Source
	// Err is the read or decode error behind a substituted default.
	Err error
}

// Defaulted reports whether the default document was substituted.
func (r LoadResult) Defaulted() bool { return r.Source != SourceStored }

// Inspector is implemented by stores that can explain a Load.
type Inspector interface {
	Inspect(ctx context.Context) LoadResult
}

// Option configures a store.
type Option func(*base)

func WithLogger(l *slog.Logger) Option {
	return func(b *base) { b.logger = l }
}

func WithRecorder(r metrics.Recorder) Option {
	return func(b *base) { b.metrics = metrics.OrNoop(r) }
}

// WithRetry retries saves that fail for a transient reason. Stores never retry by default.
func WithRetry(p retry.Policy) Option {
	return func(b *base) { b.retry = p }
}

// base carries what every backend needs for logging and metrics.
type base struct {
	backend string
	logger  *slog.Logger
	metrics metrics.Recorder
	retry   retry.Policy
}

func newBase(backend string, opts []Option) base {
	b := base{backend: backend, logger: slog.Default(), metrics: metrics.NoopRecorder{}}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// finish records the outcome of a load and substitutes the default where needed.
func (b *base) finish(ctx context.Context, res LoadResult) LoadResult {
	outcome := metrics.LoadStored
	switch res.Source {
	case SourceAbsent:
		outcome = metrics.LoadAbsent
	case SourceMalformed:
		outcome = metrics.LoadMalformed
		b.logger.WarnContext(ctx, "Stored content is malformed, using default",
			logfields.Backend(b.backend), logfields.Error(res.Err))
	case SourceUnreadable:
		outcome = metrics.LoadUnreadable
		b.logger.WarnContext(ctx, "Stored content is unreadable, using default",
			logfields.Backend(b.backend), logfields.Error(res.Err))
	}
	if res.Defaulted() {
		res.Document = content.Default()
	}
	b.metrics.IncContentLoad(b.backend, outcome)
	return res
}

func (b *base) saved(ctx context.Context, err error) error {
	b.metrics.IncContentSave(b.backend, err == nil)
	if err != nil {
		b.logger.ErrorContext(ctx, "Content save failed", logfields.Backend(b.backend), logfields.Error(err))
		return err
	}
	b.logger.InfoContext(ctx, "Content saved", logfields.Backend(b.backend))
	return nil
}
