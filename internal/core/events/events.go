// Package events models one entry of a Hinge matches.json export
package events

import (
	"bytes"
	"encoding/json"
	"sort"

	perr "matchlog/internal/platform/errors"
)

// Known event kinds
const (
	KindMatch = "match"
	KindLike  = "like"
	KindChats = "chats"
	KindBlock = "block"
	KindWeMet = "we_met"
)

// Event maps an event kind to its records. The first record carries the timestamp and kind fields
type Event map[string][]json.RawMessage

// Has reports whether key is present with at least one record
func (e Event) Has(key string) bool { return len(e[key]) > 0 }

// Len returns how many records key holds
func (e Event) Len(key string) int { return len(e[key]) }

// First decodes the first record of key. ok is false when key is absent or the record is not an object
func (e Event) First(key string) (map[string]any, bool) {
	return e.At(key, 0)
}

// At decodes record i of key
func (e Event) At(key string, i int) (map[string]any, bool) {
	list := e[key]
	if i < 0 || i >= len(list) {
		return nil, false
	}
	var rec map[string]any
	if err := json.Unmarshal(list[i], &rec); err != nil || rec == nil {
		return nil, false
	}
	return rec, true
}

// Keys returns the present keys in sorted order
func (e Event) Keys() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		if e.Has(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Decode parses an export: a JSON array of objects whose values are arrays
func Decode(data []byte) ([]Event, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, perr.JSONErrf("upload must be a JSON array of events")
	}
	var evs []Event
	if err := json.Unmarshal(trimmed, &evs); err != nil {
		return nil, perr.JSONErrf("upload must be a JSON array of objects holding arrays: %v", err)
	}
	if err := Validate(evs); err != nil {
		return nil, err
	}
	return evs, nil
}

// Validate rejects null entries. The array and object shape is enforced by decoding into []Event
func Validate(evs []Event) error {
	for i, ev := range evs {
		if ev == nil {
			return perr.WithField(perr.JSONErrf("event %d is not an object", i), "events")
		}
	}
	return nil
}
