// Package module wires the facts store into the API
package module

import (
	"context"
	"fmt"
	"time"

	"matchlog/internal/modkit"
	"matchlog/internal/modkit/httpkit"
	"matchlog/internal/services/facts/domain"
	"matchlog/internal/services/facts/repo"
)

// Ports exposed by the facts module
type Ports struct {
	Store domain.Store
}

// Module owns the facts store. It mounts no routes
type Module struct {
	name  string
	ports Ports
}

// New picks postgres when deps.PG is set, the in-memory store otherwise
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("facts")}, opts...)...)
	o := FromConfig(deps.Cfg)
	log := deps.Log.With().Str("module", b.Name).Logger()

	var st domain.Store
	if deps.PG == nil {
		log.Warn().Msg("postgres disabled, facts are kept in memory")
		st = repo.NewMemory()
	} else {
		if o.Migrate {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			err := repo.Migrate(ctx, deps.PG)
			cancel()
			if err != nil {
				panic(fmt.Errorf("facts migrate: %w", err))
			}
			log.Info().Msg("facts schema ready")
		}
		st = repo.NewPG(deps.PG, o.LockTimeout)
	}
	return &Module{name: b.Name, ports: Ports{Store: st}}
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return m.name }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(httpkit.Router) {}
