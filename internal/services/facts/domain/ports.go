package domain

import (
	"context"

	"matchlog/internal/core/classify"
)

// Writer is the write side, only reachable inside Store.Tx
type Writer interface {
	DeleteUser(ctx context.Context, userID string) error
	InsertMatch(ctx context.Context, m classify.MatchFact) error
	InsertLike(ctx context.Context, l classify.LikeFact) error
	InsertPerson(ctx context.Context, p classify.PersonRecord) error
	PutUpload(ctx context.Context, u Upload) error
}

// Reader serves committed facts. Matches and Likes are ordered by timestamp;
// Persons by has_media, like_timestamp and match_timestamp, all descending with nulls last
type Reader interface {
	Matches(ctx context.Context, userID string) ([]classify.MatchFact, error)
	Likes(ctx context.Context, userID string) ([]classify.LikeFact, error)
	Persons(ctx context.Context, userID string, limit, offset int) ([]classify.PersonRecord, error)
	CountPersons(ctx context.Context, userID string) (int, error)
	Upload(ctx context.Context, userID string) (Upload, error)
}

// Store commits everything written in fn, or nothing when fn fails
type Store interface {
	Reader
	Tx(ctx context.Context, fn func(w Writer) error) error
}
