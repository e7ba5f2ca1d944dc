package store

import (
	"context"
	"errors"
	"testing"

	perr "matchlog/internal/platform/errors"
)

type fakeRows struct {
	vals []int
	i    int
	err  error
}

func (f *fakeRows) Next() bool {
	if f.i >= len(f.vals) {
		return false
	}
	f.i++
	return true
}

func (f *fakeRows) Scan(dest ...any) error {
	*(dest[0].(*int)) = f.vals[f.i-1]
	return nil
}
func (f *fakeRows) Err() error { return f.err }
func (f *fakeRows) Close()     {}

type fakeQ struct {
	rows *fakeRows
	qerr error
}

func (f fakeQ) Exec(context.Context, string, ...any) (CommandTag, error) { return nil, nil }
func (f fakeQ) Query(context.Context, string, ...any) (Rows, error) {
	if f.qerr != nil {
		return nil, f.qerr
	}
	return f.rows, nil
}
func (f fakeQ) QueryRow(context.Context, string, ...any) Row { return nil }

func scanInt(r Row) (int, error) {
	var v int
	err := r.Scan(&v)
	return v, err
}

func TestMany(t *testing.T) {
	got, err := Many(context.Background(), fakeQ{rows: &fakeRows{vals: []int{3, 1, 2}}}, scanInt, "select")
	if err != nil || len(got) != 3 || got[0] != 3 {
		t.Fatalf("got %v %v", got, err)
	}

	empty, err := Many(context.Background(), fakeQ{rows: &fakeRows{}}, scanInt, "select")
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("empty result should be a non-nil empty slice, got %#v %v", empty, err)
	}

	boom := errors.New("boom")
	if _, err := Many(context.Background(), fakeQ{qerr: boom}, scanInt, "select"); !errors.Is(err, boom) {
		t.Fatalf("query error not returned: %v", err)
	}
}

func TestOne(t *testing.T) {
	ctx := context.Background()
	if v, err := One(ctx, fakeQ{rows: &fakeRows{vals: []int{7}}}, scanInt, "select"); err != nil || v != 7 {
		t.Fatalf("got %v %v", v, err)
	}
	if _, err := One(ctx, fakeQ{rows: &fakeRows{}}, scanInt, "select"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("want NotFound, got %v", err)
	}
	if _, err := One(ctx, fakeQ{rows: &fakeRows{vals: []int{1, 2}}}, scanInt, "select"); err == nil {
		t.Fatalf("want error for two rows")
	}
}

func TestZeroStore(t *testing.T) {
	s, err := Open(context.Background(), Config{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if s.PG != nil {
		t.Fatalf("disabled pg should stay nil")
	}
	if err := s.Guard(context.Background()); err != nil {
		t.Fatalf("guard: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	var nilStore *Store
	if nilStore.Guard(context.Background()) == nil {
		t.Fatalf("nil store guard should fail")
	}
}
