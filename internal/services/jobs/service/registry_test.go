package service

import (
	"errors"
	"regexp"
	"sync"
	"testing"

	perr "matchlog/internal/platform/errors"
	dom "matchlog/internal/services/jobs/domain"
)

var _ dom.Tracker = (*Registry)(nil)

func TestCreate(t *testing.T) {
	r := NewRegistry()
	snap, err := r.Create("u1")
	if err != nil {
		t.Fatal(err)
	}
	if !regexp.MustCompile(`^[0-9A-F]{32}$`).MatchString(snap.ID) {
		t.Fatalf("id = %q", snap.ID)
	}
	if snap.Status != dom.Pending || snap.Progress != 0 {
		t.Fatalf("snap = %+v", snap)
	}
	if owner, ok := r.Owner(snap.ID); !ok || owner != "u1" {
		t.Fatalf("owner = %q %v", owner, ok)
	}
}

func TestCreateRetriesCollisions(t *testing.T) {
	ids := []string{"A", "A", "B"}
	r := NewRegistry(WithIDSource(func() (string, error) {
		id := ids[0]
		ids = ids[1:]
		return id, nil
	}))
	first, _ := r.Create("u")
	second, err := r.Create("u")
	if err != nil || first.ID != "A" || second.ID != "B" {
		t.Fatalf("ids = %q %q %v", first.ID, second.ID, err)
	}
}

func TestCreateIDSourceFailure(t *testing.T) {
	r := NewRegistry(WithIDSource(func() (string, error) { return "", errors.New("entropy exhausted") }))
	if _, err := r.Create("u"); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("err = %v", err)
	}
	if r.Len() != 0 {
		t.Fatalf("job installed despite failure")
	}
}

func TestUpdateMergesPartially(t *testing.T) {
	r := NewRegistry()
	snap, _ := r.Create("u")

	if _, err := r.Update(snap.ID, dom.Set(dom.Processing, 40, "working")); err != nil {
		t.Fatal(err)
	}
	msg := "still working"
	got, err := r.Update(snap.ID, dom.Patch{Message: &msg})
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != dom.Processing || got.Progress != 40 || got.Message != msg {
		t.Fatalf("merged = %+v", got)
	}
}

func TestUpdateErrors(t *testing.T) {
	r := NewRegistry()
	snap, _ := r.Create("u")

	if _, err := r.Update("missing", dom.Fail("x")); !errors.Is(err, dom.ErrUnknownJob) {
		t.Fatalf("unknown id err = %v", err)
	}
	over := 100.5
	if _, err := r.Update(snap.ID, dom.Patch{Progress: &over}); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("range err = %v", err)
	}
	if _, err := r.Update(snap.ID, dom.Set(dom.Completed, 100, "")); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("pending -> completed err = %v", err)
	}
	if _, err := r.Update(snap.ID, dom.Set(dom.Processing, 10, "")); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Update(snap.ID, dom.Fail("boom")); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Update(snap.ID, dom.Set(dom.Processing, 20, "")); !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("terminal err = %v", err)
	}
	got, _ := r.Get(snap.ID)
	if got.Status != dom.Failed || got.Progress != 10 || got.Message != "boom" {
		t.Fatalf("final = %+v", got)
	}
}

func TestChangedClosesOnUpdate(t *testing.T) {
	r := NewRegistry()
	snap, _ := r.Create("u")
	ch, ok := r.Changed(snap.ID)
	if !ok {
		t.Fatal("changed not found")
	}
	select {
	case <-ch:
		t.Fatal("closed before update")
	default:
	}
	if _, err := r.Update(snap.ID, dom.Set(dom.Processing, 1, "")); err != nil {
		t.Fatal(err)
	}
	select {
	case <-ch:
	default:
		t.Fatal("not closed after update")
	}
	if _, ok := r.Changed("missing"); ok {
		t.Fatal("unknown id reported")
	}
}

func TestConcurrentUpdates(t *testing.T) {
	r := NewRegistry()
	var ids []string
	for i := 0; i < 8; i++ {
		snap, _ := r.Create("u")
		ids = append(ids, snap.ID)
	}
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(2)
		go func(id string) {
			defer wg.Done()
			for p := 0; p <= 100; p++ {
				if _, err := r.Update(id, dom.Set(dom.Processing, float64(p), "")); err != nil {
					t.Error(err)
					return
				}
			}
			_, _ = r.Update(id, dom.Set(dom.Completed, 100, "done"))
		}(id)
		go func(id string) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				r.Get(id)
			}
		}(id)
	}
	wg.Wait()
	for _, id := range ids {
		if snap, _ := r.Get(id); snap.Status != dom.Completed {
			t.Fatalf("%s = %+v", id, snap)
		}
	}
}
