// Package scheduler runs periodic maintenance jobs such as audit log retention.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/salonsite/internal/foundation/errors"
	"git.home.luguber.info/inful/salonsite/internal/logfields"
)

// Pruner deletes records older than a cutoff.
type Pruner interface {
	Prune(ctx context.Context, before time.Time) (int64, error)
}

// Scheduler wraps a gocron scheduler.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
	now       func() time.Time
}

// New creates a scheduler. It does not run jobs until Start.
func New(logger *slog.Logger) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, "create scheduler").Build()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{scheduler: s, logger: logger, now: time.Now}, nil
}

// Start begins running scheduled jobs.
func (s *Scheduler) Start() {
	s.logger.Info("Starting scheduler", slog.Int("jobs", len(s.scheduler.Jobs())))
	s.scheduler.Start()
}

// Stop waits for running jobs and shuts the scheduler down.
func (s *Scheduler) Stop() error {
	s.logger.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}

// ScheduleRetention prunes everything older than retention every interval,
// starting immediately. It returns the job id.
func (s *Scheduler) ScheduleRetention(interval, retention time.Duration, p Pruner) (string, error) {
	if interval <= 0 || retention <= 0 {
		return "", errors.ValidationError("retention interval and age must be positive").
			WithContext("interval", interval.String()).
			WithContext("retention", retention.String()).
			Build()
	}
	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.prune, p, retention),
		gocron.WithName("event-retention"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryRuntime, "schedule retention job").Build()
	}
	return job.ID().String(), nil
}

func (s *Scheduler) prune(p Pruner, retention time.Duration) {
	start := time.Now()
	cutoff := s.now().Add(-retention)
	n, err := p.Prune(context.Background(), cutoff)
	if err != nil {
		s.logger.Error("Retention prune failed", logfields.Error(err))
		return
	}
	s.logger.Debug("Retention prune finished",
		slog.Int64("removed", n),
		slog.Time("cutoff", cutoff),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
}
