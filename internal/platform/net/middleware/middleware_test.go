package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	perr "matchlog/internal/platform/errors"
	pnet "matchlog/internal/platform/net"
	phttp "matchlog/internal/platform/net/http"
)

type fakePort struct {
	uid string
	err error
}

func (f fakePort) Parse(*http.Request) (string, error) { return f.uid, f.err }

func echoUser(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(pnet.UserID(r.Context())))
}

func TestAuth(t *testing.T) {
	cases := []struct {
		name   string
		port   AuthPort
		status int
		body   string
	}{
		{"nil port passes", nil, http.StatusOK, ""},
		{"resolved user", fakePort{uid: "u-7"}, http.StatusOK, "u-7"},
		{"rejected", fakePort{err: perr.Unauthorizedf("invalid bearer token")}, http.StatusUnauthorized, "invalid bearer token"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Auth(c.port, phttp.JSON)(http.HandlerFunc(echoUser)).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
			if rec.Code != c.status || !strings.Contains(rec.Body.String(), c.body) {
				t.Fatalf("got %d %q", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRecoverJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	h := RequestID()(RecoverJSON(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(errors.New("boom"))
	})))
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("request id header missing")
	}
	if strings.Contains(rec.Body.String(), "boom") {
		t.Fatalf("panic value leaked: %s", rec.Body.String())
	}
}

func TestAccessLogKeepsFlusher(t *testing.T) {
	var flushed bool
	h := AccessLogZerolog(AccessLogOptions{Slow: time.Hour})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		f, ok := w.(http.Flusher)
		if !ok {
			t.Fatalf("wrapped writer lost http.Flusher")
		}
		_, _ = w.Write([]byte("data: x\n\n"))
		f.Flush()
		flushed = true
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/jobs/X/events", nil))
	if !flushed || !rec.Flushed {
		t.Fatalf("stream was not flushed")
	}
}

func TestAccessLogSkip(t *testing.T) {
	called := false
	h := AccessLogZerolog(AccessLogOptions{Skip: func(r *http.Request) bool { return r.URL.Path == "/metrics" }})(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { called = true }),
	)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/metrics", nil))
	if !called {
		t.Fatalf("skipped request should still be served")
	}
}

func TestCORSPreflight(t *testing.T) {
	h := CORS(CORSOptions{AllowedOrigins: []string{"https://app.example"}})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	req := httptest.NewRequest("OPTIONS", "/api/v1/uploads", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example" {
		t.Fatalf("allow origin = %q", got)
	}
}
