package classify

import (
	"time"

	"matchlog/internal/core/events"
	"matchlog/internal/core/timestamp"
	ptime "matchlog/internal/platform/time"
)

// Tally accumulates per-upload metadata alongside classification
type Tally struct {
	Events int
	// Span covers the first record timestamps of match, like and block entries
	Span ptime.Bounds
	// Conversations counts events whose chats hold more than one message
	Conversations int
	// FirstChats counts events with a parseable first chat timestamp
	FirstChats int
}

// Add folds one event into the tally
func (t *Tally) Add(ev events.Event) {
	t.Events++
	for _, key := range []string{events.KindMatch, events.KindLike, events.KindBlock} {
		t.Span.Observe(firstStamp(ev, key))
	}
	if ev.Len(events.KindChats) > 1 {
		t.Conversations++
	}
	if firstStamp(ev, events.KindChats) != nil {
		t.FirstChats++
	}
}

func firstStamp(ev events.Event, key string) *time.Time {
	rec, ok := ev.First(key)
	if !ok {
		return nil
	}
	ts, found, err := timestamp.Field(rec)
	if err != nil || !found {
		return nil
	}
	return &ts
}
