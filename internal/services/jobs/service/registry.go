// Package service implements the job tracker and the progress notifier
package service

import (
	"strings"
	"sync"

	perr "matchlog/internal/platform/errors"
	dom "matchlog/internal/services/jobs/domain"

	"github.com/google/uuid"
)

const maxIDAttempts = 8

// Registry tracks jobs in process. The map is guarded by one RWMutex, each job by its own mutex
type Registry struct {
	mu    sync.RWMutex
	jobs  map[string]*entry
	newID func() (string, error)
}

type entry struct {
	mu      sync.Mutex
	snap    dom.Snapshot
	owner   string
	changed chan struct{}
}

// RegistryOption tunes a Registry
type RegistryOption func(*Registry)

// WithIDSource replaces the uuid based id source
func WithIDSource(fn func() (string, error)) RegistryOption {
	return func(r *Registry) { r.newID = fn }
}

// NewRegistry returns an empty registry
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{jobs: map[string]*entry{}, newID: newID}
	for _, o := range opts {
		o(r)
	}
	return r
}

// newID is a v4 uuid, upper case, without dashes
func newID() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return strings.ToUpper(strings.ReplaceAll(u.String(), "-", "")), nil
}

// Create installs a Pending job at progress 0 owned by owner
func (r *Registry) Create(owner string) (dom.Snapshot, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := r.newID()
		if err != nil {
			return dom.Snapshot{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "allocate job id")
		}
		e := &entry{
			snap:    dom.Snapshot{ID: id, Status: dom.Pending},
			owner:   owner,
			changed: make(chan struct{}),
		}
		r.mu.Lock()
		if _, taken := r.jobs[id]; taken {
			r.mu.Unlock()
			continue
		}
		r.jobs[id] = e
		r.mu.Unlock()
		return e.snap, nil
	}
	return dom.Snapshot{}, perr.Unavailablef("could not allocate a unique job id")
}

func (r *Registry) lookup(id string) (*entry, bool) {
	r.mu.RLock()
	e, ok := r.jobs[id]
	r.mu.RUnlock()
	return e, ok
}

// Update merges p into the job and wakes watchers
func (r *Registry) Update(id string, p dom.Patch) (dom.Snapshot, error) {
	e, ok := r.lookup(id)
	if !ok {
		return dom.Snapshot{}, dom.ErrUnknownJob
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	cur := e.snap
	if cur.Status.Terminal() {
		return cur, perr.Conflictf("job %s is already %s", id, cur.Status)
	}
	next := cur
	if p.Status != nil {
		if !p.Status.Valid() || !cur.Status.CanMoveTo(*p.Status) {
			return cur, perr.InvalidArgf("job %s cannot move from %s to %s", id, cur.Status, *p.Status)
		}
		next.Status = *p.Status
	}
	if p.Progress != nil {
		if *p.Progress < 0 || *p.Progress > 100 {
			return cur, perr.InvalidArgf("progress %v outside [0,100]", *p.Progress)
		}
		next.Progress = *p.Progress
	}
	if p.Message != nil {
		next.Message = *p.Message
	}

	e.snap = next
	close(e.changed)
	e.changed = make(chan struct{})
	return next, nil
}

// Get returns the current snapshot
func (r *Registry) Get(id string) (dom.Snapshot, bool) {
	snap, _, ok := r.watch(id)
	return snap, ok
}

// Owner returns the user who created the job
func (r *Registry) Owner(id string) (string, bool) {
	e, ok := r.lookup(id)
	if !ok {
		return "", false
	}
	return e.owner, true
}

// Changed returns a channel closed by the next update
func (r *Registry) Changed(id string) (<-chan struct{}, bool) {
	_, ch, ok := r.watch(id)
	return ch, ok
}

// watch reads the snapshot and its change channel together
func (r *Registry) watch(id string) (dom.Snapshot, <-chan struct{}, bool) {
	e, ok := r.lookup(id)
	if !ok {
		return dom.Snapshot{}, nil, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snap, e.changed, true
}

// Len is the number of tracked jobs
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs)
}
