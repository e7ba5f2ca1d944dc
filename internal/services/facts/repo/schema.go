package repo

import (
	"context"

	"matchlog/internal/modkit/repokit"
	perr "matchlog/internal/platform/errors"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS matches (
		id          BIGSERIAL PRIMARY KEY,
		user_id     TEXT NOT NULL,
		type        SMALLINT NOT NULL,
		occurred_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS matches_user_ts_idx ON matches (user_id, occurred_at)`,
	`CREATE TABLE IF NOT EXISTS likes (
		id          BIGSERIAL PRIMARY KEY,
		user_id     TEXT NOT NULL,
		type        SMALLINT NOT NULL,
		occurred_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS likes_user_ts_idx ON likes (user_id, occurred_at)`,
	`CREATE TABLE IF NOT EXISTS persons (
		id                    BIGSERIAL PRIMARY KEY,
		user_id               TEXT NOT NULL,
		matched               BOOLEAN NOT NULL,
		who_liked             TEXT NOT NULL,
		what_you_liked_photo  TEXT,
		what_you_liked_prompt JSONB,
		what_you_liked_video  TEXT,
		like_timestamp        TIMESTAMPTZ,
		match_timestamp       TIMESTAMPTZ,
		we_met                BOOLEAN,
		has_media             BOOLEAN NOT NULL DEFAULT false,
		blocked               BOOLEAN NOT NULL DEFAULT false,
		CONSTRAINT persons_one_liked_field CHECK (num_nonnulls(what_you_liked_photo, what_you_liked_prompt, what_you_liked_video) <= 1)
	)`,
	`CREATE INDEX IF NOT EXISTS persons_user_idx ON persons (user_id)`,
	`CREATE TABLE IF NOT EXISTS uploads (
		user_id       TEXT PRIMARY KEY,
		events        INTEGER NOT NULL,
		conversations INTEGER NOT NULL,
		first_chats   INTEGER NOT NULL,
		start_date    TIMESTAMPTZ,
		end_date      TIMESTAMPTZ,
		uploaded_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// Migrate creates the tables when missing. It is safe to run on every start
func Migrate(ctx context.Context, db repokit.TxRunner) error {
	return repokit.WithTx(ctx, db, func(q repokit.Queryer) error {
		for _, stmt := range schema {
			if _, err := q.Exec(ctx, stmt); err != nil {
				return perr.FromPostgres(err, "migrate facts schema")
			}
		}
		return nil
	})
}
