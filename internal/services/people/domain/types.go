// Package domain defines the per-user read models
package domain

import (
	"context"

	"matchlog/internal/core/classify"
	"matchlog/internal/core/summary"
	perr "matchlog/internal/platform/errors"
	facts "matchlog/internal/services/facts/domain"
)

// PageSize is the number of persons per page
const PageSize = 10

// ErrNoPersons is returned when the user has nothing stored
var ErrNoPersons = perr.NotFoundf("Persons not found for that user")

// PersonsPage is one page of persons
type PersonsPage struct {
	Persons     []classify.PersonRecord `json:"persons"`
	CurrentPage int                     `json:"current_page"`
	PageCount   int                     `json:"page_count"`
}

// Report is the summary plus the metadata of the upload it came from
type Report struct {
	summary.Summary
	Upload facts.Upload `json:"upload"`
}

// Reader serves everything a signed in user can read back
type Reader interface {
	ListPersons(ctx context.Context, userID string, page int) (PersonsPage, error)
	Matches(ctx context.Context, userID string) ([]classify.MatchFact, error)
	Likes(ctx context.Context, userID string) ([]classify.LikeFact, error)
	Summary(ctx context.Context, userID string) (Report, error)
}
