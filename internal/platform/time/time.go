// Package time contains time helpers
package time

import "time"

// Ptr returns &t, or nil for the zero time
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// Bounds tracks the earliest and latest instants observed
type Bounds struct {
	First time.Time
	Last  time.Time
	N     int
}

// Observe widens the bounds to include t; nil is ignored
func (b *Bounds) Observe(t *time.Time) {
	if t == nil {
		return
	}
	if b.N == 0 || t.Before(b.First) {
		b.First = *t
	}
	if b.N == 0 || t.After(b.Last) {
		b.Last = *t
	}
	b.N++
}

// Days is the span in fractional days, 0 when fewer than two instants were seen
func (b Bounds) Days() float64 {
	if b.N < 2 {
		return 0
	}
	return b.Last.Sub(b.First).Hours() / 24
}
