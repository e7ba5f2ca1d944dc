package domain

import "context"

// Tracker holds every job for the process lifetime
type Tracker interface {
	Create(owner string) (Snapshot, error)
	Update(id string, p Patch) (Snapshot, error)
	Get(id string) (Snapshot, bool)
	Owner(id string) (string, bool)
	Changed(id string) (<-chan struct{}, bool)
}

// Streamer emits snapshots of one job until it is terminal
type Streamer interface {
	Stream(ctx context.Context, id string, emit func(Snapshot) error) error
}
