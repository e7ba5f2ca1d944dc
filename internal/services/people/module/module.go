// Package module wires the read endpoints into the API
package module

import (
	"net/http"

	"matchlog/internal/modkit"
	"matchlog/internal/modkit/httpkit"
	"matchlog/internal/platform/net/middleware"
	facts "matchlog/internal/services/facts/domain"
	dom "matchlog/internal/services/people/domain"
	phhttp "matchlog/internal/services/people/http"
	"matchlog/internal/services/people/service"
)

// Ports exposed by the people module
type Ports struct {
	Reader dom.Reader
}

// Needs are injected with modkit.WithPorts
type Needs struct {
	Auth  middleware.AuthPort
	Store facts.Reader
}

// Module serves /persons, /matches, /likes and /summary at the API root
type Module struct {
	name     string
	prefix   string
	mws      []func(http.Handler) http.Handler
	ports    Ports
	register func(httpkit.Router)
}

// New builds the reader. It panics when a need is missing
func New(_ modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("people")}, opts...)...)

	needs, _ := b.Ports.(Needs)
	if needs.Auth == nil || needs.Store == nil {
		panic("people module requires Auth and Store ports")
	}
	svc := service.New(needs.Store)
	h := &phhttp.Handlers{Reader: svc}

	external := b.Register
	return &Module{
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		ports:  Ports{Reader: svc},
		register: func(r httpkit.Router) {
			phhttp.Register(r, needs.Auth, h)
			external(r)
		},
	}
}

// MountRoutes mounts under the prefix, or in a group when there is none
func (m *Module) MountRoutes(r httpkit.Router) {
	if m.prefix != "" {
		httpkit.MountUnder(r, m.prefix, m.mws, m.register)
		return
	}
	r.Group(func(g httpkit.Router) {
		if len(m.mws) > 0 {
			g.Use(m.mws...)
		}
		m.register(g)
	})
}

// Name returns the module name
func (m *Module) Name() string { return m.name }

// Ports returns the reader
func (m *Module) Ports() any { return m.ports }
