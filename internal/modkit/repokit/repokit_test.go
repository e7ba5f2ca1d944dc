package repokit

import (
	"context"
	"errors"
	"testing"

	"matchlog/internal/platform/store"
	kit "matchlog/internal/platform/testkit"
)

type recTx struct {
	calls []string
}

func (r *recTx) Exec(_ context.Context, sql string, _ ...any) (store.CommandTag, error) {
	r.calls = append(r.calls, sql)
	return nil, nil
}
func (r *recTx) Query(context.Context, string, ...any) (store.Rows, error) { return nil, nil }
func (r *recTx) QueryRow(context.Context, string, ...any) store.Row        { return nil }
func (r *recTx) Tx(ctx context.Context, fn func(q store.RowQuerier) error) error {
	r.calls = append(r.calls, "BEGIN")
	return fn(r)
}

func TestWithBeginHooksOrder(t *testing.T) {
	inner := &recTx{}
	tx := WithBeginHooks(inner, func(ctx context.Context, q Queryer) error {
		_, err := q.Exec(ctx, "SET LOCAL lock_timeout = '5s'")
		return err
	})
	err := WithTx(context.Background(), tx, func(q Queryer) error {
		_, err := q.Exec(context.Background(), "INSERT")
		return err
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}
	want := []string{"BEGIN", "SET LOCAL lock_timeout = '5s'", "INSERT"}
	if len(inner.calls) != len(want) {
		t.Fatalf("calls = %v", inner.calls)
	}
	for i := range want {
		if inner.calls[i] != want[i] {
			t.Fatalf("calls = %v", inner.calls)
		}
	}
}

func TestHookErrorSkipsBody(t *testing.T) {
	boom := errors.New("boom")
	tx := WithBeginHooks(&recTx{}, func(context.Context, Queryer) error { return boom })
	called := false
	err := tx.Tx(context.Background(), func(Queryer) error {
		called = true
		return nil
	})
	if !errors.Is(err, boom) || called {
		t.Fatalf("err=%v called=%v", err, called)
	}
}

func TestMustBind(t *testing.T) {
	b := BindFunc[string](func(Queryer) string { return "bound" })
	kit.MustPanic(t, func() { MustBind[string](b, nil) })
	if got := MustBind[string](b, &recTx{}); got != "bound" {
		t.Fatalf("got %q", got)
	}
}

type guard struct{ err error }

func (g guard) Guard(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("no deadline")
	}
	return g.err
}

func TestMustGuard(t *testing.T) {
	kit.MustNotPanic(t, func() { MustGuard(context.Background(), guard{}) })
	kit.MustPanic(t, func() { MustGuard(context.Background(), guard{err: errors.New("down")}) })
}
