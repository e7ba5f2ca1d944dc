// Package http serves job status and the progress stream
package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"time"

	"matchlog/internal/modkit/httpkit"
	"matchlog/internal/platform/logger"
	"matchlog/internal/platform/metrics"
	"matchlog/internal/platform/net/middleware"
	dom "matchlog/internal/services/jobs/domain"
)

// Handlers serves the jobs routes
type Handlers struct {
	Tracker       dom.Tracker
	Streamer      dom.Streamer
	StreamTimeout time.Duration
	Metrics       *metrics.Collector
}

// Register mounts GET /{id} behind auth and GET /{id}/events in the open
// EventSource cannot send an Authorization header; job ids are unguessable
func Register(r httpkit.Router, auth middleware.AuthPort, h *Handlers) {
	httpkit.Protected(r, auth, func(pr httpkit.Router) {
		httpkit.Get(pr, "/{id}", h.status)
	})
	r.Get("/{id}/events", h.events)
}

// @Summary Job status
// @Tags jobs
// @Produce json
// @Param id path string true "Job id"
// @Success 200 {object} domain.Snapshot
// @Failure 404 {object} httpkit.Envelope
// @Router /jobs/{id} [get]
func (h *Handlers) status(r *stdhttp.Request) (any, error) {
	uid, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	id := httpkit.Param(r, "id")
	owner, ok := h.Tracker.Owner(id)
	if !ok || owner != uid {
		return nil, dom.ErrUnknownJob
	}
	snap, _ := h.Tracker.Get(id)
	return snap, nil
}

// @Summary Job progress stream
// @Tags jobs
// @Produce text/event-stream
// @Param id path string true "Job id"
// @Router /jobs/{id}/events [get]
func (h *Handlers) events(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	id := httpkit.Param(r, "id")
	log := logger.C(logger.WithJob(r.Context(), id))

	es, err := httpkit.OpenEventStream(w)
	if err != nil {
		httpkit.RespondError(w, r, err)
		return
	}
	defer h.Metrics.StreamOpened()()

	ctx := r.Context()
	if h.StreamTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.StreamTimeout)
		defer cancel()
	}

	err = h.Streamer.Stream(ctx, id, func(s dom.Snapshot) error {
		return es.Send(string(s.Status), s)
	})
	switch {
	case errors.Is(err, dom.ErrUnknownJob):
		if err := es.Send("taskError", "Task not found"); err != nil {
			log.Debug().Err(err).Msg("write taskError")
		}
	case errors.Is(err, context.DeadlineExceeded):
		log.Info().Dur("timeout", h.StreamTimeout).Msg("progress stream timed out")
	case err != nil && ctx.Err() == nil:
		log.Debug().Err(err).Msg("progress stream closed")
	}
}
