// Package domain defines the ingest operation
package domain

import (
	"context"

	"matchlog/internal/core/events"
	jobs "matchlog/internal/services/jobs/domain"
)

// Upload is returned synchronously when an upload is accepted
type Upload struct {
	JobID  string      `json:"job_id"`
	Status jobs.Status `json:"status"`
	Events int         `json:"events"`
}

// RunArgs is one background classification run
type RunArgs struct {
	JobID  string
	UserID string
	Events []events.Event
}

// Ingester accepts an export and schedules its classification
type Ingester interface {
	Ingest(ctx context.Context, userID string, evs []events.Event) (Upload, error)
}

// Waiter blocks until scheduled runs finish or ctx ends
type Waiter interface {
	Wait(ctx context.Context) error
}
