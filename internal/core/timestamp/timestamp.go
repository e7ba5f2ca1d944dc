// Package timestamp turns the free-text timestamps found in exports into UTC instants
// Pipeline order
// 1 NFKC normalization
// 2 Width fold fullwidth digits and colons to ASCII
// 3 Map unicode space separators (NBSP, narrow NBSP) to ASCII space
// 4 Collapse whitespace and trim
// 5 dateparse in UTC
package timestamp

import (
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// ParseError reports an input no known layout accepts
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("timestamp: cannot parse %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKC,
			width.Fold,
			runes.Map(func(r rune) rune {
				if unicode.Is(unicode.Zs, r) {
					return ' '
				}
				return r
			}),
		)
	},
}

// Normalize folds localized text into the ASCII form dateparse understands
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(s, "")

	tr := chainPool.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		ns = s
	}
	return strings.Join(strings.Fields(ns), " ")
}

// Parse returns s as a UTC instant. Inputs without a zone are read as UTC.
// Slash dates are month first unless that cannot be valid, then day first
func Parse(s string) (time.Time, error) {
	ns := Normalize(s)
	if ns == "" {
		return time.Time{}, &ParseError{Input: s, Err: fmt.Errorf("empty timestamp")}
	}
	t, err := dateparse.ParseIn(ns, time.UTC, dateparse.RetryAmbiguousDateWithSwap(true))
	if err != nil {
		return time.Time{}, &ParseError{Input: s, Err: err}
	}
	return t.UTC(), nil
}

// Field parses the "timestamp" member of a record. ok is false when the member is missing or not a string
func Field(rec map[string]any) (t time.Time, ok bool, err error) {
	raw, found := rec["timestamp"]
	if !found || raw == nil {
		return time.Time{}, false, nil
	}
	s, isStr := raw.(string)
	if !isStr {
		return time.Time{}, false, &ParseError{Input: fmt.Sprint(raw), Err: fmt.Errorf("timestamp is %T", raw)}
	}
	t, err = Parse(s)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}
