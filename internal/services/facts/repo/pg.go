// Package repo holds the facts stores: postgres and in-memory
package repo

import (
	"context"
	"encoding/json"
	"time"

	"matchlog/internal/core/classify"
	"matchlog/internal/core/likecontent"
	"matchlog/internal/modkit/repokit"
	perr "matchlog/internal/platform/errors"
	"matchlog/internal/platform/store"
	"matchlog/internal/services/facts/domain"
)

type (
	queries struct{ q repokit.Queryer }
	binder  struct{}
)

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) *queries { return &queries{q: q} }

// PGStore is the postgres facts store
type PGStore struct {
	db   repokit.TxRunner
	bind repokit.Binder[*queries]
}

// NewPG builds the store over db. Every transaction first sets a lock timeout
func NewPG(db repokit.TxRunner, lockTimeout time.Duration) *PGStore {
	if lockTimeout > 0 {
		db = repokit.WithBeginHooks(db, setLockTimeout(lockTimeout))
	}
	return &PGStore{db: db, bind: binder{}}
}

func setLockTimeout(d time.Duration) repokit.BeginHook {
	return func(ctx context.Context, q repokit.Queryer) error {
		_, err := q.Exec(ctx, "SELECT set_config('lock_timeout', $1, true)", d.String())
		return perr.FromPostgres(err, "set lock_timeout")
	}
}

// Tx implements domain.Store
func (s *PGStore) Tx(ctx context.Context, fn func(w domain.Writer) error) error {
	return repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		return fn(repokit.MustBind(s.bind, q))
	})
}

func (s *PGStore) reader() *queries { return repokit.MustBind(s.bind, s.db) }

// Matches implements domain.Reader
func (s *PGStore) Matches(ctx context.Context, userID string) ([]classify.MatchFact, error) {
	return s.reader().Matches(ctx, userID)
}

// Likes implements domain.Reader
func (s *PGStore) Likes(ctx context.Context, userID string) ([]classify.LikeFact, error) {
	return s.reader().Likes(ctx, userID)
}

// Persons implements domain.Reader
func (s *PGStore) Persons(ctx context.Context, userID string, limit, offset int) ([]classify.PersonRecord, error) {
	return s.reader().Persons(ctx, userID, limit, offset)
}

// CountPersons implements domain.Reader
func (s *PGStore) CountPersons(ctx context.Context, userID string) (int, error) {
	return s.reader().CountPersons(ctx, userID)
}

// Upload implements domain.Reader
func (s *PGStore) Upload(ctx context.Context, userID string) (domain.Upload, error) {
	return s.reader().Upload(ctx, userID)
}

func (r *queries) DeleteUser(ctx context.Context, userID string) error {
	for _, stmt := range []string{
		`DELETE FROM matches WHERE user_id = $1`,
		`DELETE FROM likes WHERE user_id = $1`,
		`DELETE FROM persons WHERE user_id = $1`,
		`DELETE FROM uploads WHERE user_id = $1`,
	} {
		if _, err := r.q.Exec(ctx, stmt, userID); err != nil {
			return perr.FromPostgres(err, "delete previous upload")
		}
	}
	return nil
}

func (r *queries) InsertMatch(ctx context.Context, m classify.MatchFact) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO matches (user_id, type, occurred_at) VALUES ($1, $2, $3)`,
		m.UserID, int(m.Type), m.Timestamp)
	return perr.FromPostgres(err, "insert match")
}

func (r *queries) InsertLike(ctx context.Context, l classify.LikeFact) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO likes (user_id, type, occurred_at) VALUES ($1, $2, $3)`,
		l.UserID, int(l.Type), l.Timestamp)
	return perr.FromPostgres(err, "insert like")
}

func (r *queries) InsertPerson(ctx context.Context, p classify.PersonRecord) error {
	var prompt []byte
	if p.LikedPrompt != nil {
		b, err := json.Marshal(p.LikedPrompt)
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeJSON, "encode liked prompt")
		}
		prompt = b
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO persons (
			user_id, matched, who_liked,
			what_you_liked_photo, what_you_liked_prompt, what_you_liked_video,
			like_timestamp, match_timestamp, we_met, has_media, blocked
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.UserID, p.Matched, string(p.WhoLiked),
		p.LikedPhoto, prompt, p.LikedVideo,
		p.LikeTimestamp, p.MatchTimestamp, p.WeMet, p.HasMedia, p.Blocked,
	)
	return perr.FromPostgres(err, "insert person")
}

func (r *queries) PutUpload(ctx context.Context, u domain.Upload) error {
	if u.UploadedAt.IsZero() {
		u.UploadedAt = time.Now().UTC()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO uploads (user_id, events, conversations, first_chats, start_date, end_date, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			events = EXCLUDED.events,
			conversations = EXCLUDED.conversations,
			first_chats = EXCLUDED.first_chats,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			uploaded_at = EXCLUDED.uploaded_at`,
		u.UserID, u.Events, u.Conversations, u.FirstChats, u.StartDate, u.EndDate, u.UploadedAt,
	)
	return perr.FromPostgres(err, "put upload")
}

func (r *queries) Matches(ctx context.Context, userID string) ([]classify.MatchFact, error) {
	out, err := store.Many(ctx, r.q, func(row store.Row) (classify.MatchFact, error) {
		m := classify.MatchFact{UserID: userID}
		var typ int
		err := row.Scan(&typ, &m.Timestamp)
		m.Type = classify.MatchType(typ)
		return m, err
	}, `SELECT type, occurred_at FROM matches WHERE user_id = $1 ORDER BY occurred_at NULLS LAST, id`, userID)
	return out, perr.FromPostgres(err, "list matches")
}

func (r *queries) Likes(ctx context.Context, userID string) ([]classify.LikeFact, error) {
	out, err := store.Many(ctx, r.q, func(row store.Row) (classify.LikeFact, error) {
		l := classify.LikeFact{UserID: userID}
		var typ int
		err := row.Scan(&typ, &l.Timestamp)
		l.Type = likecontent.Kind(typ)
		return l, err
	}, `SELECT type, occurred_at FROM likes WHERE user_id = $1 ORDER BY occurred_at NULLS LAST, id`, userID)
	return out, perr.FromPostgres(err, "list likes")
}

func (r *queries) Persons(ctx context.Context, userID string, limit, offset int) ([]classify.PersonRecord, error) {
	out, err := store.Many(ctx, r.q, scanPerson, `
		SELECT user_id, matched, who_liked,
			what_you_liked_photo, what_you_liked_prompt, what_you_liked_video,
			like_timestamp, match_timestamp, we_met, has_media, blocked
		FROM persons
		WHERE user_id = $1
		ORDER BY has_media DESC, like_timestamp DESC NULLS LAST, match_timestamp DESC NULLS LAST, id
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	return out, perr.FromPostgres(err, "list persons")
}

func scanPerson(row store.Row) (classify.PersonRecord, error) {
	var (
		p      classify.PersonRecord
		who    string
		prompt []byte
	)
	if err := row.Scan(
		&p.UserID, &p.Matched, &who,
		&p.LikedPhoto, &prompt, &p.LikedVideo,
		&p.LikeTimestamp, &p.MatchTimestamp, &p.WeMet, &p.HasMedia, &p.Blocked,
	); err != nil {
		return p, err
	}
	p.WhoLiked = classify.WhoLiked(who)
	if len(prompt) > 0 {
		var pa likecontent.PromptAnswer
		if err := json.Unmarshal(prompt, &pa); err != nil {
			return p, perr.Wrap(err, perr.ErrorCodeJSON, "decode liked prompt")
		}
		p.LikedPrompt = &pa
	}
	return p, nil
}

func (r *queries) CountPersons(ctx context.Context, userID string) (int, error) {
	n, err := store.Scalar[int](ctx, r.q, `SELECT count(*) FROM persons WHERE user_id = $1`, userID)
	return n, perr.FromPostgres(err, "count persons")
}

func (r *queries) Upload(ctx context.Context, userID string) (domain.Upload, error) {
	u, err := store.One(ctx, r.q, func(row store.Row) (domain.Upload, error) {
		u := domain.Upload{UserID: userID}
		err := row.Scan(&u.Events, &u.Conversations, &u.FirstChats, &u.StartDate, &u.EndDate, &u.UploadedAt)
		return u, err
	}, `SELECT events, conversations, first_chats, start_date, end_date, uploaded_at FROM uploads WHERE user_id = $1`, userID)
	if perr.IsCode(err, perr.ErrorCodeNotFound) {
		return domain.Upload{}, perr.NotFoundf("no upload for user")
	}
	return u, perr.FromPostgres(err, "get upload")
}
