// Package domain defines tracked jobs and their lifecycle
package domain

import perr "matchlog/internal/platform/errors"

// Status is where a job is in its lifecycle
type Status string

const (
	Pending    Status = "pending"
	Processing Status = "processing"
	Completed  Status = "completed"
	Failed     Status = "failed"
)

// Terminal reports whether no transition leaves s
func (s Status) Terminal() bool { return s == Completed || s == Failed }

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	switch s {
	case Pending, Processing, Completed, Failed:
		return true
	}
	return false
}

// CanMoveTo reports whether s -> next is allowed
// Pending -> Processing | Failed, Processing -> Processing | Completed | Failed
func (s Status) CanMoveTo(next Status) bool {
	switch s {
	case Pending:
		return next == Pending || next == Processing || next == Failed
	case Processing:
		return next == Processing || next == Completed || next == Failed
	}
	return false
}

// Snapshot is the public view of a job
type Snapshot struct {
	ID       string  `json:"id"`
	Status   Status  `json:"status"`
	Progress float64 `json:"progress"`
	Message  string  `json:"message"`
}

// Patch is a partial update; nil fields are left alone
type Patch struct {
	Status   *Status
	Progress *float64
	Message  *string
}

// Set builds a full patch
func Set(st Status, progress float64, msg string) Patch {
	return Patch{Status: &st, Progress: &progress, Message: &msg}
}

// Fail builds a patch that keeps the current progress
func Fail(msg string) Patch {
	st := Failed
	return Patch{Status: &st, Message: &msg}
}

// ErrUnknownJob is returned for ids the tracker never issued
var ErrUnknownJob = perr.NotFoundf("Task not found")
