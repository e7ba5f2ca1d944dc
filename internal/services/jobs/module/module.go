// Package module wires the job tracker into the API
package module

import (
	"net/http"

	"matchlog/internal/modkit"
	"matchlog/internal/modkit/httpkit"
	"matchlog/internal/platform/net/middleware"
	dom "matchlog/internal/services/jobs/domain"
	jhttp "matchlog/internal/services/jobs/http"
	"matchlog/internal/services/jobs/service"
)

// Ports exposed by the jobs module
type Ports struct {
	Tracker  dom.Tracker
	Streamer dom.Streamer
}

// Needs are the ports the jobs module requires, injected with modkit.WithPorts
type Needs struct {
	Auth middleware.AuthPort
}

// Module owns the process wide job registry
type Module struct {
	name     string
	prefix   string
	mws      []func(http.Handler) http.Handler
	ports    Ports
	register func(httpkit.Router)
}

// New builds the registry and notifier. It panics without an auth port
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("jobs"),
		modkit.WithPrefix("/jobs"),
	}, opts...)...)

	needs, _ := b.Ports.(Needs)
	if needs.Auth == nil {
		panic("jobs module requires an Auth port")
	}
	o := FromConfig(deps.Cfg)

	reg := service.NewRegistry()
	notifier := service.NewNotifier(reg, o.PollInterval)
	h := &jhttp.Handlers{
		Tracker:       reg,
		Streamer:      notifier,
		StreamTimeout: o.StreamTimeout,
		Metrics:       deps.Metrics,
	}

	external := b.Register
	return &Module{
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		ports:  Ports{Tracker: reg, Streamer: notifier},
		register: func(r httpkit.Router) {
			jhttp.Register(r, needs.Auth, h)
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

// Ports returns the tracker and streamer
func (m *Module) Ports() any { return m.ports }
