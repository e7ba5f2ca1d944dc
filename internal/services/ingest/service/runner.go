// Package service runs classification in the background and tracks it as a job
package service

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"matchlog/internal/core/classify"
	"matchlog/internal/core/events"
	perr "matchlog/internal/platform/errors"
	"matchlog/internal/platform/logger"
	"matchlog/internal/platform/metrics"
	facts "matchlog/internal/services/facts/domain"
	dom "matchlog/internal/services/ingest/domain"
	jobs "matchlog/internal/services/jobs/domain"
)

// Runner drives one upload from Processing to a terminal state
type Runner struct {
	Tracker jobs.Tracker
	Store   facts.Store
	// Pace sleeps between events; zero only yields the processor
	Pace    time.Duration
	Metrics *metrics.Collector
	Now     func() time.Time
}

func progressMessage(done, total int) string {
	return fmt.Sprintf("Working out who you matched with, from %d Hinge events. %d/%d complete.", total, done, total)
}

// Run classifies a.Events inside one store transaction. Every fact commits or none does,
// and the job always ends Completed or Failed. The returned error is the failure recorded on the job
func (r *Runner) Run(ctx context.Context, a dom.RunArgs) (err error) {
	ctx = logger.WithJob(logger.WithUser(ctx, a.UserID), a.JobID)
	log := logger.C(ctx)
	started := r.now()
	total := len(a.Events)
	r.Metrics.JobStarted()

	defer func() {
		if p := recover(); p != nil {
			err = perr.PanicErrf("upload crashed: %v", p)
		}
		elapsed := r.now().Sub(started)
		if err == nil {
			r.Metrics.JobFinished(string(jobs.Completed), elapsed)
			log.Info().Int("events", total).Dur("took", elapsed).Msg("upload classified")
			return
		}
		r.Metrics.JobFinished(string(jobs.Failed), elapsed)
		log.Error().Err(err).Int("events", total).Msg("upload failed")
		if _, uerr := r.Tracker.Update(a.JobID, jobs.Fail(err.Error())); uerr != nil {
			log.Warn().Err(uerr).Msg("record job failure")
		}
	}()

	if _, err := r.Tracker.Update(a.JobID, jobs.Set(jobs.Processing, 0, progressMessage(0, total))); err != nil {
		return err
	}
	if total == 0 {
		_, err := r.Tracker.Update(a.JobID, jobs.Set(jobs.Completed, 100, "0/0 completed"))
		return err
	}

	var tally classify.Tally
	err = r.Store.Tx(ctx, func(w facts.Writer) error {
		if err := w.DeleteUser(ctx, a.UserID); err != nil {
			return err
		}
		for i, ev := range a.Events {
			if err := ctx.Err(); err != nil {
				return perr.Wrap(err, perr.ErrorCodeCanceled, "upload canceled")
			}
			out, err := classifyOne(ev, a.UserID)
			if err != nil {
				return perr.Wrapf(err, perr.CodeOf(err), "event %d", i)
			}
			for _, is := range out.Issues {
				is.Index = i
				log.Debug().Err(is).Msg("event issue")
			}
			r.Metrics.EventClassified(out.Rule.String())
			r.Metrics.Issues(len(out.Issues))

			if err := persist(ctx, w, out); err != nil {
				return err
			}
			tally.Add(ev)

			done := i + 1
			if _, err := r.Tracker.Update(a.JobID, jobs.Set(jobs.Processing, classify.Progress(done, total), progressMessage(done, total))); err != nil {
				return err
			}
			r.yield(ctx)
		}
		return w.PutUpload(ctx, facts.Upload{
			UserID:        a.UserID,
			Events:        tally.Events,
			Conversations: tally.Conversations,
			FirstChats:    tally.FirstChats,
			StartDate:     boundPtr(tally.Span.N, tally.Span.First),
			EndDate:       boundPtr(tally.Span.N, tally.Span.Last),
			UploadedAt:    r.now().UTC(),
		})
	})
	if err != nil {
		return err
	}

	_, err = r.Tracker.Update(a.JobID, jobs.Set(jobs.Completed, 100, fmt.Sprintf("%d/%d completed", total, total)))
	return err
}

// classifyOne isolates a panic in classification to the event that caused it
func classifyOne(ev events.Event, userID string) (out classify.Outcome, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = perr.PanicErrf("classification panicked: %v", p)
		}
	}()
	return classify.Event(ev, userID), nil
}

func persist(ctx context.Context, w facts.Writer, out classify.Outcome) error {
	if out.Match != nil {
		if err := w.InsertMatch(ctx, *out.Match); err != nil {
			return err
		}
	}
	if out.Like != nil {
		if err := w.InsertLike(ctx, *out.Like); err != nil {
			return err
		}
	}
	if out.Person != nil {
		if err := w.InsertPerson(ctx, *out.Person); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) yield(ctx context.Context) {
	if r.Pace <= 0 {
		runtime.Gosched()
		return
	}
	t := time.NewTimer(r.Pace)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func boundPtr(n int, t time.Time) *time.Time {
	if n == 0 {
		return nil
	}
	return &t
}
