package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	c.JobStarted()
	c.JobFinished("completed", time.Second)
	c.EventClassified("match_like")
	c.Issues(2)
	c.StreamOpened()()
	if c.Registry() != nil {
		t.Fatalf("nil collector has no registry")
	}
	h := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	if c.Middleware(h) == nil {
		t.Fatalf("middleware must pass through")
	}
}

func TestDomainCounters(t *testing.T) {
	c := New("match-log", "test")
	c.JobStarted()
	c.JobFinished("failed", 10*time.Millisecond)
	c.EventClassified("like")
	c.EventClassified("like")
	c.Issues(3)
	done := c.StreamOpened()

	if got := testutil.ToFloat64(c.jobsStarted); got != 1 {
		t.Fatalf("jobs started = %v", got)
	}
	if got := testutil.ToFloat64(c.jobsFinished.WithLabelValues("failed")); got != 1 {
		t.Fatalf("jobs failed = %v", got)
	}
	if got := testutil.ToFloat64(c.events.WithLabelValues("like")); got != 2 {
		t.Fatalf("rule 4 events = %v", got)
	}
	if got := testutil.ToFloat64(c.issues); got != 3 {
		t.Fatalf("issues = %v", got)
	}
	if got := testutil.ToFloat64(c.streams); got != 1 {
		t.Fatalf("streams = %v", got)
	}
	done()
	if got := testutil.ToFloat64(c.streams); got != 0 {
		t.Fatalf("streams after close = %v", got)
	}
}

func TestMiddlewareAndHandler(t *testing.T) {
	c := New("matchlog", "test")
	r := chi.NewRouter()
	r.Use(c.Middleware)
	r.Get("/jobs/{id}", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNotFound) })
	r.Handle("/metrics", c.Handler())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/jobs/ABC", nil))

	if got := testutil.ToFloat64(c.httpRequests.WithLabelValues("GET", "/jobs/{id}", "404")); got != 1 {
		t.Fatalf("route counter = %v", got)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	if !strings.Contains(body, "matchlog_http_requests_total") || !strings.Contains(body, `matchlog_build_info{version="test"} 1`) {
		t.Fatalf("exposition missing series:\n%s", body)
	}
}
