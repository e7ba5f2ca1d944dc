package module

import (
	"time"

	"matchlog/internal/platform/config"
	"matchlog/internal/platform/store"
)

// Options holds the facts module settings
type Options struct {
	Migrate     bool
	LockTimeout time.Duration
}

// FromConfig reads SERVICE_PGSQL_MIGRATE and FACTS_LOCK_TIMEOUT
func FromConfig(cfg config.Conf) Options {
	return Options{
		Migrate:     store.FromConfig(cfg).PG.Migrate,
		LockTimeout: cfg.Prefix("FACTS_").MayDuration("LOCK_TIMEOUT", 5*time.Second),
	}
}
