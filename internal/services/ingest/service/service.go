package service

import (
	"context"
	"sync"

	"matchlog/internal/core/events"
	perr "matchlog/internal/platform/errors"
	"matchlog/internal/platform/logger"
	dom "matchlog/internal/services/ingest/domain"
	jobs "matchlog/internal/services/jobs/domain"
)

// Config tunes the ingest service
type Config struct {
	// MaxEvents rejects larger uploads; zero means no limit
	MaxEvents int
}

// Svc implements domain.Ingester and domain.Waiter
type Svc struct {
	base    context.Context
	runner  *Runner
	tracker jobs.Tracker
	cfg     Config
	wg      sync.WaitGroup
}

// New runs uploads on goroutines bound to base, which should live as long as the process
func New(base context.Context, runner *Runner, cfg Config) *Svc {
	return &Svc{base: base, runner: runner, tracker: runner.Tracker, cfg: cfg}
}

// Ingest validates evs, creates the job and starts the run. It returns before classification begins
func (s *Svc) Ingest(ctx context.Context, userID string, evs []events.Event) (dom.Upload, error) {
	if userID == "" {
		return dom.Upload{}, perr.Unauthorizedf("missing user")
	}
	if err := events.Validate(evs); err != nil {
		return dom.Upload{}, err
	}
	if s.cfg.MaxEvents > 0 && len(evs) > s.cfg.MaxEvents {
		return dom.Upload{}, perr.WithField(perr.Validationf("upload has %d events, the limit is %d", len(evs), s.cfg.MaxEvents), "events")
	}

	snap, err := s.tracker.Create(userID)
	if err != nil {
		return dom.Upload{}, err
	}
	logger.C(ctx).Info().Str("job_id", snap.ID).Int("events", len(evs)).Msg("upload accepted")

	args := dom.RunArgs{JobID: snap.ID, UserID: userID, Events: evs}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		// Run records its own failure on the job
		_ = s.runner.Run(s.base, args)
	}()

	return dom.Upload{JobID: snap.ID, Status: snap.Status, Events: len(evs)}, nil
}

// Wait blocks until every started run has returned, or ctx ends
func (s *Svc) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
