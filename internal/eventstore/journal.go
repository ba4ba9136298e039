package eventstore

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/salonsite/internal/logfields"
)

// Journal appends events to a store and keeps a projection current.
// Recording is best effort: failures are logged and never returned to callers.
// A nil *Journal records nothing.
type Journal struct {
	store      Store
	projection *ActivityProjection
	logger     *slog.Logger
}

func NewJournal(store Store, projection *ActivityProjection, logger *slog.Logger) *Journal {
	if logger == nil {
		logger = slog.Default()
	}
	return &Journal{store: store, projection: projection, logger: logger}
}

// Record persists event and applies it to the projection. A constructor error
// passed alongside event is logged and the event is dropped.
func (j *Journal) Record(ctx context.Context, event Event, buildErr error) {
	if j == nil {
		return
	}
	if buildErr != nil {
		j.logger.Warn("Dropping audit event", logfields.Error(buildErr))
		return
	}
	err := j.store.Append(ctx, event.CorrelationID(), event.Type(), event.Payload(), event.Metadata())
	if err != nil {
		j.logger.Warn("Failed to append audit event", logfields.Kind(event.Type()), logfields.Error(err))
		return
	}
	if j.projection != nil {
		j.projection.Apply(event)
	}
}

// Summary returns the projection's summary, or a zero summary without one.
func (j *Journal) Summary() ActivitySummary {
	if j == nil || j.projection == nil {
		return ActivitySummary{Recent: []Entry{}}
	}
	return j.projection.Summary()
}

// Store returns the underlying store.
func (j *Journal) Store() Store {
	if j == nil {
		return nil
	}
	return j.store
}
