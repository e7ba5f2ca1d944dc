package pg

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	kit "matchlog/internal/platform/testkit"
)

func TestOpenAppliesConfig(t *testing.T) {
	kit.Serial(t)
	var seen *pgxpool.Config
	kit.Swap(t, &newPool, func(_ context.Context, c *pgxpool.Config) (*pgxpool.Pool, error) {
		seen = c
		return nil, nil
	})

	mutated := false
	p, err := Open(context.Background(), Config{URL: "postgres://u:p@localhost:5432/matchlog", MaxConns: 7, SlowMs: 50}, nil,
		func(c *pgxpool.Config) { mutated = c.MaxConns == 7 })
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if seen == nil || seen.MaxConns != 7 || !mutated {
		t.Fatalf("pool config not applied: %+v mutated=%v", seen, mutated)
	}
	if p.SlowMs != 50 {
		t.Fatalf("SlowMs = %d", p.SlowMs)
	}
	p.Close()
}

func TestOpenErrors(t *testing.T) {
	kit.Serial(t)
	boom := errors.New("dial refused")
	kit.Swap(t, &newPool, func(context.Context, *pgxpool.Config) (*pgxpool.Pool, error) {
		return nil, boom
	})

	if _, err := Open(context.Background(), Config{URL: "postgres://localhost/matchlog"}, nil, nil); !errors.Is(err, boom) {
		t.Fatalf("pool error = %v", err)
	}
	if _, err := Open(context.Background(), Config{URL: "postgres://u:p@localhost:%zz/matchlog"}, nil, nil); err == nil {
		t.Fatalf("bad url accepted")
	}
}
