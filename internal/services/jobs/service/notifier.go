package service

import (
	"context"
	"time"

	dom "matchlog/internal/services/jobs/domain"
)

// Notifier samples a Registry for one job until it is terminal
type Notifier struct {
	reg      *Registry
	interval time.Duration
}

// NewNotifier polls every interval, and also wakes on each update
func NewNotifier(reg *Registry, interval time.Duration) *Notifier {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &Notifier{reg: reg, interval: interval}
}

// Stream emits the current snapshot right away, then on every tick or update,
// and returns after emitting a terminal one. Unknown ids fail with ErrUnknownJob before anything is emitted
func (n *Notifier) Stream(ctx context.Context, id string, emit func(dom.Snapshot) error) error {
	snap, changed, ok := n.reg.watch(id)
	if !ok {
		return dom.ErrUnknownJob
	}
	tick := time.NewTicker(n.interval)
	defer tick.Stop()

	for {
		if err := emit(snap); err != nil {
			return err
		}
		if snap.Status.Terminal() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
		case <-changed:
		}
		snap, changed, _ = n.reg.watch(id)
	}
}
