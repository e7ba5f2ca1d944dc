// Package module wires the meta endpoints into the API
package module

import (
	"net/http"
	"time"

	"matchlog/internal/modkit"
	"matchlog/internal/modkit/httpkit"
	str "matchlog/internal/platform/strings"
	metahttp "matchlog/internal/services/api/meta/http"
)

// Module implements modkit.Module
type Module struct {
	name     string
	prefix   string
	mws      []func(http.Handler) http.Handler
	register func(httpkit.Router)

	startedAt time.Time
}

// New constructs the meta module. service names the binary in /health and /version
func New(deps modkit.Deps, service string, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	m := &Module{
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		startedAt: time.Now(),
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		metahttp.Register(r, metahttp.Deps{
			ServiceName: str.MustString(service, "service name"),
			StartedAt:   m.startedAt,
			PG:          deps.PG,
		})
		external(r)
	}
	return m
}

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, str.MustPrefix(m.prefix), m.mws, m.register)
}

// Name implements modkit.Module
func (m *Module) Name() string { return str.MustString(m.name, "meta") }

// Ports implements modkit.Module
func (m *Module) Ports() any { return nil }
