//go:build integration_pg

package store

import (
	"context"
	"errors"
	"testing"

	"matchlog/internal/platform/store/pgtest"
)

func TestPGTxCommitAndRollback(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, Config{PG: PGConfig{Enabled: true, URL: pgtest.Start(t), LogSQL: true, ConnectRetries: 10}})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	if err := s.Guard(ctx); err != nil {
		t.Fatalf("guard: %v", err)
	}
	if _, err := s.PG.Exec(ctx, `CREATE TABLE notes (id int PRIMARY KEY)`); err != nil {
		t.Fatalf("create: %v", err)
	}

	boom := errors.New("boom")
	err = s.PG.Tx(ctx, func(q RowQuerier) error {
		if _, err := q.Exec(ctx, `INSERT INTO notes VALUES (1)`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("tx err = %v", err)
	}
	if n, _ := Scalar[int64](ctx, s.PG, `SELECT count(*) FROM notes`); n != 0 {
		t.Fatalf("rolled back insert visible, n=%d", n)
	}

	if err := s.PG.Tx(ctx, func(q RowQuerier) error {
		_, err := q.Exec(ctx, `INSERT INTO notes VALUES (2)`)
		return err
	}); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if n, _ := Scalar[int64](ctx, s.PG, `SELECT count(*) FROM notes`); n != 1 {
		t.Fatalf("committed insert missing, n=%d", n)
	}
}
