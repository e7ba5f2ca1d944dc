// Package module exposes the bearer token verifier to other modules
package module

import (
	"fmt"

	"matchlog/internal/modkit"
	"matchlog/internal/modkit/httpkit"
	"matchlog/internal/platform/net/middleware"
	"matchlog/internal/services/auth/domain"
	"matchlog/internal/services/auth/service"
)

// Ports exposed by the auth module
type Ports struct {
	// Auth resolves the Authorization header of a request
	Auth     middleware.AuthPort
	Verifier domain.Verifier
	Issuer   domain.Issuer
}

// Module holds the verifier. It mounts no routes
type Module struct {
	name  string
	ports Ports
}

// New panics when AUTH_JWT_SECRET is missing
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("auth")}, opts...)...)
	o := FromConfig(deps.Cfg)

	v, err := service.New(service.Config{Secret: []byte(o.Secret), Issuer: o.Issuer, Leeway: o.Leeway})
	if err != nil {
		panic(fmt.Errorf("auth module: %w", err))
	}
	return &Module{
		name: b.Name,
		ports: Ports{
			Auth:     httpkit.NewPortFunc(v.Verify),
			Verifier: v,
			Issuer:   v,
		},
	}
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return m.name }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(httpkit.Router) {}
