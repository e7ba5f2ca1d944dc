// Package modkit wires modules: shared deps, build options and the module contract
package modkit

import (
	"context"

	"matchlog/internal/modkit/repokit"
	"matchlog/internal/platform/config"
	"matchlog/internal/platform/logger"
	"matchlog/internal/platform/metrics"
)

// Deps are the process wide dependencies handed to every module
// PG is nil when postgres is disabled; Metrics may be nil
type Deps struct {
	// Base lives as long as the process; background work hangs off it
	Base    context.Context
	Log     logger.Logger
	Cfg     config.Conf
	PG      repokit.TxRunner
	Metrics *metrics.Collector
}

// BaseContext returns Base, or Background when unset
func (d Deps) BaseContext() context.Context {
	if d.Base == nil {
		return context.Background()
	}
	return d.Base
}
