// Package service reads stored facts back for their owner
package service

import (
	"context"

	"matchlog/internal/core/classify"
	"matchlog/internal/core/summary"
	perr "matchlog/internal/platform/errors"
	facts "matchlog/internal/services/facts/domain"
	dom "matchlog/internal/services/people/domain"
)

// Svc implements domain.Reader over a facts store
type Svc struct {
	store facts.Reader
}

// New returns a reader over store
func New(store facts.Reader) *Svc { return &Svc{store: store} }

// ListPersons returns page (1-based) of the user's persons. A page past the end is clamped to the last one
func (s *Svc) ListPersons(ctx context.Context, userID string, page int) (dom.PersonsPage, error) {
	if page < 1 {
		return dom.PersonsPage{}, perr.WithField(perr.InvalidArgf("page must be at least 1"), "page")
	}
	total, err := s.store.CountPersons(ctx, userID)
	if err != nil {
		return dom.PersonsPage{}, err
	}
	if total == 0 {
		return dom.PersonsPage{}, dom.ErrNoPersons
	}

	pages := (total + dom.PageSize - 1) / dom.PageSize
	page = min(page, pages)
	persons, err := s.store.Persons(ctx, userID, dom.PageSize, (page-1)*dom.PageSize)
	if err != nil {
		return dom.PersonsPage{}, err
	}
	return dom.PersonsPage{Persons: persons, CurrentPage: page, PageCount: pages}, nil
}

// Matches returns every match fact, oldest first
func (s *Svc) Matches(ctx context.Context, userID string) ([]classify.MatchFact, error) {
	return s.store.Matches(ctx, userID)
}

// Likes returns every like fact, oldest first
func (s *Svc) Likes(ctx context.Context, userID string) ([]classify.LikeFact, error) {
	return s.store.Likes(ctx, userID)
}

// Summary aggregates the last committed upload. It is NotFound before the first one
func (s *Svc) Summary(ctx context.Context, userID string) (dom.Report, error) {
	up, err := s.store.Upload(ctx, userID)
	if err != nil {
		return dom.Report{}, err
	}
	ms, err := s.store.Matches(ctx, userID)
	if err != nil {
		return dom.Report{}, err
	}
	ls, err := s.store.Likes(ctx, userID)
	if err != nil {
		return dom.Report{}, err
	}
	sum := summary.Compute(summary.Input{Matches: ms, Likes: ls, Conversations: up.Conversations})
	return dom.Report{Summary: sum, Upload: up}, nil
}
