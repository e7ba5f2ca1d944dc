package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"matchlog/internal/core/classify"
	"matchlog/internal/core/events"
	"matchlog/internal/core/likecontent"
	perr "matchlog/internal/platform/errors"
	facts "matchlog/internal/services/facts/domain"
	"matchlog/internal/services/facts/repo"
	dom "matchlog/internal/services/ingest/domain"
	jobs "matchlog/internal/services/jobs/domain"
	jobsvc "matchlog/internal/services/jobs/service"
)

// recordingTracker keeps every progress value written to the registry
type recordingTracker struct {
	*jobsvc.Registry
	mu       sync.Mutex
	progress []float64
}

func (t *recordingTracker) Update(id string, p jobs.Patch) (jobs.Snapshot, error) {
	snap, err := t.Registry.Update(id, p)
	if err == nil && p.Progress != nil {
		t.mu.Lock()
		t.progress = append(t.progress, snap.Progress)
		t.mu.Unlock()
	}
	return snap, err
}

// flakyStore fails or panics on the nth person insert
type flakyStore struct {
	*repo.Memory
	failAt  int
	panicAt int
}

func (s *flakyStore) Tx(ctx context.Context, fn func(facts.Writer) error) error {
	return s.Memory.Tx(ctx, func(w facts.Writer) error {
		return fn(&flakyWriter{Writer: w, s: s})
	})
}

type flakyWriter struct {
	facts.Writer
	s *flakyStore
	n int
}

func (w *flakyWriter) InsertPerson(ctx context.Context, p classify.PersonRecord) error {
	w.n++
	if w.n == w.s.panicAt {
		panic("disk on fire")
	}
	if w.n == w.s.failAt {
		return perr.Newf(perr.ErrorCodeDB, "insert person: connection reset")
	}
	return w.Writer.InsertPerson(ctx, p)
}

func decode(t *testing.T, s string) []events.Event {
	t.Helper()
	evs, err := events.Decode([]byte(s))
	if err != nil {
		t.Fatal(err)
	}
	return evs
}

func newRun(t *testing.T, store facts.Store) (*Runner, *recordingTracker, string) {
	t.Helper()
	tr := &recordingTracker{Registry: jobsvc.NewRegistry()}
	snap, err := tr.Create("u1")
	if err != nil {
		t.Fatal(err)
	}
	return &Runner{Tracker: tr, Store: store}, tr, snap.ID
}

const scenarioLike = `[{"like":[{"timestamp":"2023-01-01T10:00:00","content":"[{\"photo\":{\"url\":\"http://x/1.jpg\"}}]"}]}]`

func TestRunLikeScenario(t *testing.T) {
	ctx := context.Background()
	mem := repo.NewMemory()
	r, tr, id := newRun(t, mem)

	if err := r.Run(ctx, dom.RunArgs{JobID: id, UserID: "u1", Events: decode(t, scenarioLike)}); err != nil {
		t.Fatal(err)
	}
	snap, _ := tr.Get(id)
	if snap.Status != jobs.Completed || snap.Progress != 100 || snap.Message != "1/1 completed" {
		t.Fatalf("snap = %+v", snap)
	}
	likes, _ := mem.Likes(ctx, "u1")
	persons, _ := mem.Persons(ctx, "u1", 10, 0)
	if len(likes) != 1 || likes[0].Type != likecontent.Photo || len(persons) != 1 {
		t.Fatalf("likes = %+v persons = %+v", likes, persons)
	}
	p := persons[0]
	if p.Matched || p.WhoLiked != classify.You || !p.HasMedia || *p.LikedPhoto != "http://x/1.jpg" {
		t.Fatalf("person = %+v", p)
	}
	up, err := mem.Upload(ctx, "u1")
	if err != nil || up.Events != 1 || up.StartDate == nil {
		t.Fatalf("upload = %+v %v", up, err)
	}
}

func TestRunMatchWithPromptScenario(t *testing.T) {
	ctx := context.Background()
	mem := repo.NewMemory()
	r, _, id := newRun(t, mem)
	evs := decode(t, `[{"match":[{"timestamp":"2023-02-01T00:00:00"}],"like":[{"timestamp":"2023-02-01T00:00:00","content":"[{\"prompt\":{\"question\":\"Q\",\"answer\":\"A\"}}]"}]}]`)

	if err := r.Run(ctx, dom.RunArgs{JobID: id, UserID: "u1", Events: evs}); err != nil {
		t.Fatal(err)
	}
	ms, _ := mem.Matches(ctx, "u1")
	ls, _ := mem.Likes(ctx, "u1")
	ps, _ := mem.Persons(ctx, "u1", 10, 0)
	if len(ms) != 1 || ms[0].Type != classify.YouLiked || len(ls) != 1 || ls[0].Type != likecontent.Prompt {
		t.Fatalf("matches = %+v likes = %+v", ms, ls)
	}
	if ps[0].LikedPrompt == nil || ps[0].LikedPrompt.Question != "Q" || ps[0].LikedPrompt.Answer != "A" {
		t.Fatalf("person = %+v", ps[0])
	}
}

func TestRunEmptyUpload(t *testing.T) {
	ctx := context.Background()
	mem := repo.NewMemory()
	r, tr, id := newRun(t, mem)

	if err := r.Run(ctx, dom.RunArgs{JobID: id, UserID: "u1"}); err != nil {
		t.Fatal(err)
	}
	snap, _ := tr.Get(id)
	if snap.Status != jobs.Completed || snap.Progress != 100 || snap.Message != "0/0 completed" {
		t.Fatalf("snap = %+v", snap)
	}
	if _, err := mem.Upload(ctx, "u1"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("empty upload touched storage: %v", err)
	}
}

func TestRunProgressMonotonic(t *testing.T) {
	r, tr, id := newRun(t, repo.NewMemory())
	evs := decode(t, `[{"match":[{}]},{"we_met":[{}]},{"like":[{}]},{},{"block":[{}]},{"match":[{}],"chats":[{}]}]`)

	if err := r.Run(context.Background(), dom.RunArgs{JobID: id, UserID: "u1", Events: evs}); err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 16.67, 33.33, 50, 66.67, 83.33, 100, 100}
	if len(tr.progress) != len(want) {
		t.Fatalf("progress = %v", tr.progress)
	}
	for i := range want {
		if tr.progress[i] != want[i] {
			t.Fatalf("progress = %v want %v", tr.progress, want)
		}
	}
}

func TestRunPersistenceFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	mem := repo.NewMemory()
	// an earlier upload must survive the failed one
	seed, _, seedID := newRun(t, mem)
	if err := seed.Run(ctx, dom.RunArgs{JobID: seedID, UserID: "u1", Events: decode(t, scenarioLike)}); err != nil {
		t.Fatal(err)
	}

	store := &flakyStore{Memory: mem, failAt: 3}
	r, tr, id := newRun(t, store)
	evs := decode(t, `[{"match":[{}]},{"like":[{}]},{"match":[{}],"like":[{}]}]`)

	err := r.Run(ctx, dom.RunArgs{JobID: id, UserID: "u1", Events: evs})
	if !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("err = %v", err)
	}
	snap, _ := tr.Get(id)
	if snap.Status != jobs.Failed || !strings.Contains(snap.Message, "connection reset") {
		t.Fatalf("snap = %+v", snap)
	}
	if snap.Progress != 66.67 {
		t.Fatalf("failure should keep the last progress, got %v", snap.Progress)
	}
	ms, _ := mem.Matches(ctx, "u1")
	ls, _ := mem.Likes(ctx, "u1")
	if len(ms) != 0 || len(ls) != 1 {
		t.Fatalf("store shows the failed run: %d matches %d likes", len(ms), len(ls))
	}
}

func TestRunPanicEndsFailed(t *testing.T) {
	ctx := context.Background()
	mem := repo.NewMemory()
	r, tr, id := newRun(t, &flakyStore{Memory: mem, panicAt: 1})

	err := r.Run(ctx, dom.RunArgs{JobID: id, UserID: "u1", Events: decode(t, scenarioLike)})
	if !perr.IsCode(err, perr.ErrorCodePanic) {
		t.Fatalf("err = %v", err)
	}
	snap, _ := tr.Get(id)
	if snap.Status != jobs.Failed || !strings.Contains(snap.Message, "disk on fire") {
		t.Fatalf("snap = %+v", snap)
	}
	if n, _ := mem.CountPersons(ctx, "u1"); n != 0 {
		t.Fatalf("persons = %d", n)
	}
}

func TestRunCanceled(t *testing.T) {
	mem := repo.NewMemory()
	r, tr, id := newRun(t, mem)
	r.Pace = 50 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(10*time.Millisecond, cancel)

	err := r.Run(ctx, dom.RunArgs{JobID: id, UserID: "u1", Events: decode(t, `[{"match":[{}]},{"match":[{}]},{"match":[{}]}]`)})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
	if snap, _ := tr.Get(id); snap.Status != jobs.Failed {
		t.Fatalf("snap = %+v", snap)
	}
	if ms, _ := mem.Matches(context.Background(), "u1"); len(ms) != 0 {
		t.Fatalf("canceled run committed %d matches", len(ms))
	}
}

func TestRunUnknownJob(t *testing.T) {
	r := &Runner{Tracker: jobsvc.NewRegistry(), Store: repo.NewMemory()}
	if err := r.Run(context.Background(), dom.RunArgs{JobID: "missing", UserID: "u"}); !errors.Is(err, jobs.ErrUnknownJob) {
		t.Fatalf("err = %v", err)
	}
}

func TestRunReplacesPreviousUpload(t *testing.T) {
	ctx := context.Background()
	mem := repo.NewMemory()
	for _, in := range []string{`[{"match":[{}]},{"match":[{}]}]`, `[{"match":[{}]}]`} {
		r, _, id := newRun(t, mem)
		if err := r.Run(ctx, dom.RunArgs{JobID: id, UserID: "u1", Events: decode(t, in)}); err != nil {
			t.Fatal(err)
		}
	}
	if ms, _ := mem.Matches(ctx, "u1"); len(ms) != 1 {
		t.Fatalf("matches = %d", len(ms))
	}
}
