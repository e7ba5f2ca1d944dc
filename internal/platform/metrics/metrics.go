// Package metrics owns the prometheus registry for the process
//
// A nil *Collector is valid and records nothing, so services can run without metrics
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	chi "github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds every metric the service exports
type Collector struct {
	reg *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	inflight     prometheus.Gauge

	jobsStarted  prometheus.Counter
	jobsFinished *prometheus.CounterVec
	jobDuration  prometheus.Histogram
	events       *prometheus.CounterVec
	issues       prometheus.Counter
	streams      prometheus.Gauge
}

// New registers the metrics under namespace on a private registry
func New(namespace, version string) *Collector {
	ns := strings.ReplaceAll(namespace, "-", "_")
	c := &Collector{reg: prometheus.NewRegistry()}

	c.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns, Name: "http_requests_total", Help: "HTTP requests by route and status",
	}, []string{"method", "route", "status"})
	c.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: ns, Name: "http_request_duration_seconds", Help: "HTTP request duration", Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	c.inflight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: ns, Name: "http_inflight_requests", Help: "Requests being served",
	})

	c.jobsStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: ns, Name: "jobs_started_total", Help: "Ingest jobs started",
	})
	c.jobsFinished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns, Name: "jobs_finished_total", Help: "Ingest jobs finished by terminal status",
	}, []string{"status"})
	c.jobDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: ns, Name: "job_duration_seconds", Help: "Wall time of ingest jobs",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 14),
	})
	c.events = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns, Name: "events_classified_total", Help: "Events classified by rule",
	}, []string{"rule"})
	c.issues = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: ns, Name: "event_issues_total", Help: "Event scoped data issues such as malformed timestamps",
	})
	c.streams = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: ns, Name: "progress_streams_open", Help: "Open progress event streams",
	})
	info := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: ns, Name: "build_info", Help: "Build information",
	}, []string{"version"})
	info.WithLabelValues(version).Set(1)

	c.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.httpRequests, c.httpDuration, c.inflight,
		c.jobsStarted, c.jobsFinished, c.jobDuration, c.events, c.issues, c.streams,
		info,
	)
	return c
}

// Registry exposes the registry for tests and extra collectors
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.reg
}

// JobStarted counts a job entering processing
func (c *Collector) JobStarted() {
	if c == nil {
		return
	}
	c.jobsStarted.Inc()
}

// JobFinished counts a terminal job and observes its duration
func (c *Collector) JobFinished(status string, d time.Duration) {
	if c == nil {
		return
	}
	c.jobsFinished.WithLabelValues(status).Inc()
	c.jobDuration.Observe(d.Seconds())
}

// EventClassified counts one event under the rule that classified it
func (c *Collector) EventClassified(rule string) {
	if c == nil {
		return
	}
	c.events.WithLabelValues(rule).Inc()
}

// Issues counts event scoped data issues
func (c *Collector) Issues(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.issues.Add(float64(n))
}

// StreamOpened tracks an open progress stream; call the returned func on close
func (c *Collector) StreamOpened() func() {
	if c == nil {
		return func() {}
	}
	c.streams.Inc()
	return c.streams.Dec
}

// Middleware records request count and latency labelled by the chi route pattern
func (c *Collector) Middleware(next http.Handler) http.Handler {
	if c == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.inflight.Inc()
		defer c.inflight.Dec()

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the registry in the prometheus exposition format
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{Registry: c.reg})
}
