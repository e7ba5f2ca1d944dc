package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"matchlog/internal/core/classify"
	"matchlog/internal/modkit/httpkit"
	phttp "matchlog/internal/platform/net/http"
	kit "matchlog/internal/platform/testkit"
	facts "matchlog/internal/services/facts/domain"
	"matchlog/internal/services/facts/repo"
	dom "matchlog/internal/services/people/domain"
	phhttp "matchlog/internal/services/people/http"
	"matchlog/internal/services/people/service"

	"github.com/go-chi/chi/v5"
)

func setup(t *testing.T) http.Handler {
	t.Helper()
	mem := repo.NewMemory()
	at := time.Date(2023, 3, 1, 12, 0, 0, 0, time.UTC)
	err := mem.Tx(context.Background(), func(w facts.Writer) error {
		if err := w.InsertMatch(context.Background(), classify.MatchFact{UserID: "alice", Type: classify.TheyLiked, Timestamp: &at}); err != nil {
			return err
		}
		if err := w.InsertPerson(context.Background(), classify.PersonRecord{UserID: "alice", Matched: true, WhoLiked: classify.Them, MatchTimestamp: &at}); err != nil {
			return err
		}
		return w.PutUpload(context.Background(), facts.Upload{UserID: "alice", Events: 1, UploadedAt: at})
	})
	if err != nil {
		t.Fatal(err)
	}

	auth := httpkit.NewPortFunc(func(token string) (string, error) {
		if strings.HasPrefix(token, "user:") {
			return strings.TrimPrefix(token, "user:"), nil
		}
		return "", errors.New("bad token")
	})
	root := chi.NewRouter()
	phttp.AdaptChi(root).Group(func(r phttp.Router) {
		phhttp.Register(r, auth, &phhttp.Handlers{Reader: service.New(mem)})
	})
	return root
}

func get(h http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPersons(t *testing.T) {
	h := setup(t)
	rec := get(h, "/persons?page=4", "user:alice")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d body %s", rec.Code, rec.Body)
	}
	env := kit.MustDecode[struct {
		Data dom.PersonsPage `json:"data"`
	}](t, rec.Body.Bytes())
	if env.Data.CurrentPage != 1 || env.Data.PageCount != 1 || len(env.Data.Persons) != 1 {
		t.Fatalf("data = %+v", env.Data)
	}
}

func TestRoutesStatus(t *testing.T) {
	h := setup(t)
	cases := map[string]struct {
		path, token string
		code        int
	}{
		"no token":          {"/persons", "", http.StatusUnauthorized},
		"bad page":          {"/persons?page=x", "user:alice", http.StatusBadRequest},
		"zero page":         {"/persons?page=0", "user:alice", http.StatusBadRequest},
		"nobody's persons":  {"/persons", "user:bob", http.StatusNotFound},
		"matches":           {"/matches", "user:alice", http.StatusOK},
		"likes":             {"/likes", "user:alice", http.StatusOK},
		"summary":           {"/summary", "user:alice", http.StatusOK},
		"summary no upload": {"/summary", "user:bob", http.StatusNotFound},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			if rec := get(h, c.path, c.token); rec.Code != c.code {
				t.Fatalf("code = %d body %s", rec.Code, rec.Body)
			}
		})
	}
}

func TestSummaryBody(t *testing.T) {
	rec := get(setup(t), "/summary", "user:alice")
	kit.MustContain(t, rec.Body.String(), `"matches_they_liked":1`)
	kit.MustContain(t, rec.Body.String(), `"upload":{"user_id":"alice"`)
}
