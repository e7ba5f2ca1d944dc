package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"matchlog/internal/core/classify"
	perr "matchlog/internal/platform/errors"
	"matchlog/internal/services/facts/domain"
)

// Memory keeps facts in process. Writes are staged per transaction and applied under one lock on commit
type Memory struct {
	mu      sync.RWMutex
	seq     int64
	matches map[string][]classify.MatchFact
	likes   map[string][]classify.LikeFact
	persons map[string][]person
	uploads map[string]domain.Upload
	now     func() time.Time
}

type person struct {
	seq int64
	rec classify.PersonRecord
}

// NewMemory returns an empty store
func NewMemory() *Memory {
	return &Memory{
		matches: map[string][]classify.MatchFact{},
		likes:   map[string][]classify.LikeFact{},
		persons: map[string][]person{},
		uploads: map[string]domain.Upload{},
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Tx implements domain.Store. A panic in fn leaves the store untouched
func (m *Memory) Tx(ctx context.Context, fn func(w domain.Writer) error) error {
	st := &staged{}
	if err := fn(st); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeCanceled, "commit")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, op := range st.ops {
		op(m)
	}
	return nil
}

type staged struct {
	ops []func(*Memory)
}

func (s *staged) add(ctx context.Context, op func(*Memory)) error {
	if err := ctx.Err(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeCanceled, "staged write")
	}
	s.ops = append(s.ops, op)
	return nil
}

func (s *staged) DeleteUser(ctx context.Context, userID string) error {
	return s.add(ctx, func(m *Memory) {
		delete(m.matches, userID)
		delete(m.likes, userID)
		delete(m.persons, userID)
		delete(m.uploads, userID)
	})
}

func (s *staged) InsertMatch(ctx context.Context, f classify.MatchFact) error {
	return s.add(ctx, func(m *Memory) { m.matches[f.UserID] = append(m.matches[f.UserID], f) })
}

func (s *staged) InsertLike(ctx context.Context, f classify.LikeFact) error {
	return s.add(ctx, func(m *Memory) { m.likes[f.UserID] = append(m.likes[f.UserID], f) })
}

func (s *staged) InsertPerson(ctx context.Context, p classify.PersonRecord) error {
	if countLiked(p) > 1 {
		return perr.Validationf("person holds more than one liked field")
	}
	return s.add(ctx, func(m *Memory) {
		m.seq++
		m.persons[p.UserID] = append(m.persons[p.UserID], person{seq: m.seq, rec: p})
	})
}

func (s *staged) PutUpload(ctx context.Context, u domain.Upload) error {
	return s.add(ctx, func(m *Memory) {
		if u.UploadedAt.IsZero() {
			u.UploadedAt = m.now()
		}
		m.uploads[u.UserID] = u
	})
}

func countLiked(p classify.PersonRecord) int {
	n := 0
	if p.LikedPhoto != nil {
		n++
	}
	if p.LikedPrompt != nil {
		n++
	}
	if p.LikedVideo != nil {
		n++
	}
	return n
}

// Matches implements domain.Reader
func (m *Memory) Matches(_ context.Context, userID string) ([]classify.MatchFact, error) {
	m.mu.RLock()
	out := append([]classify.MatchFact{}, m.matches[userID]...)
	m.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return earlier(out[i].Timestamp, out[j].Timestamp) })
	return out, nil
}

// Likes implements domain.Reader
func (m *Memory) Likes(_ context.Context, userID string) ([]classify.LikeFact, error) {
	m.mu.RLock()
	out := append([]classify.LikeFact{}, m.likes[userID]...)
	m.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return earlier(out[i].Timestamp, out[j].Timestamp) })
	return out, nil
}

// Persons implements domain.Reader
func (m *Memory) Persons(_ context.Context, userID string, limit, offset int) ([]classify.PersonRecord, error) {
	m.mu.RLock()
	rows := append([]person{}, m.persons[userID]...)
	m.mu.RUnlock()

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].rec, rows[j].rec
		if a.HasMedia != b.HasMedia {
			return a.HasMedia
		}
		if c := laterFirst(a.LikeTimestamp, b.LikeTimestamp); c != 0 {
			return c < 0
		}
		if c := laterFirst(a.MatchTimestamp, b.MatchTimestamp); c != 0 {
			return c < 0
		}
		return rows[i].seq < rows[j].seq
	})

	if offset < 0 {
		offset = 0
	}
	if offset >= len(rows) {
		return []classify.PersonRecord{}, nil
	}
	rows = rows[offset:]
	if limit >= 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	out := make([]classify.PersonRecord, len(rows))
	for i, r := range rows {
		out[i] = r.rec
	}
	return out, nil
}

// CountPersons implements domain.Reader
func (m *Memory) CountPersons(_ context.Context, userID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.persons[userID]), nil
}

// Upload implements domain.Reader
func (m *Memory) Upload(_ context.Context, userID string) (domain.Upload, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.uploads[userID]
	if !ok {
		return domain.Upload{}, perr.NotFoundf("no upload for user")
	}
	return u, nil
}

// earlier orders ascending with nil last
func earlier(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.Before(*b)
	}
}

// laterFirst compares descending with nil last: -1 when a sorts first
func laterFirst(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case a.After(*b):
		return -1
	case b.After(*a):
		return 1
	default:
		return 0
	}
}
