// Package module wires uploads and the background runner into the API
package module

import (
	"net/http"

	"matchlog/internal/modkit"
	"matchlog/internal/modkit/httpkit"
	"matchlog/internal/platform/logger"
	"matchlog/internal/platform/net/middleware"
	facts "matchlog/internal/services/facts/domain"
	dom "matchlog/internal/services/ingest/domain"
	ihttp "matchlog/internal/services/ingest/http"
	"matchlog/internal/services/ingest/service"
	jobs "matchlog/internal/services/jobs/domain"
)

// Ports exposed by the ingest module
type Ports struct {
	Ingester dom.Ingester
	Waiter   dom.Waiter
}

// Needs are injected with modkit.WithPorts
type Needs struct {
	Auth    middleware.AuthPort
	Tracker jobs.Tracker
	Store   facts.Store
}

// Module mounts POST /uploads
type Module struct {
	name     string
	prefix   string
	mws      []func(http.Handler) http.Handler
	ports    Ports
	register func(httpkit.Router)
}

// New builds the runner and service. It panics when a need is missing
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("ingest"),
		modkit.WithPrefix("/uploads"),
	}, opts...)...)

	needs, _ := b.Ports.(Needs)
	if needs.Auth == nil || needs.Tracker == nil || needs.Store == nil {
		panic("ingest module requires Auth, Tracker and Store ports")
	}
	o := FromConfig(deps.Cfg)

	runner := &service.Runner{
		Tracker: needs.Tracker,
		Store:   needs.Store,
		Pace:    o.Pace,
		Metrics: deps.Metrics,
	}
	svc := service.New(deps.BaseContext(), runner, service.Config{MaxEvents: o.MaxEvents})
	h := &ihttp.Handlers{Ingester: svc, MaxBytes: o.MaxBytes}

	logger.Get().Debug().
		Dur("pace", o.Pace).
		Int("max_events", o.MaxEvents).
		Int64("max_bytes", o.MaxBytes).
		Msg("ingest configured")

	external := b.Register
	return &Module{
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		ports:  Ports{Ingester: svc, Waiter: svc},
		register: func(r httpkit.Router) {
			ihttp.Register(r, needs.Auth, h)
			external(r)
		},
	}
}

// MountRoutes mounts the module under its prefix
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.prefix, m.mws, m.register)
}

// Name returns the module name
func (m *Module) Name() string { return m.name }

// Ports returns the ingester and waiter
func (m *Module) Ports() any { return m.ports }
