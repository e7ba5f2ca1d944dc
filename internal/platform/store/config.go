package store

import (
	"time"

	"matchlog/internal/platform/config"
)

// Config aggregates backend configuration
type Config struct {
	PG PGConfig
}

// PGConfig configures the postgres pool
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int
	Migrate     bool

	ConnectRetries int
	PingTimeout    time.Duration
}

// FromConfig reads SERVICE_PGSQL_* under cfg
func FromConfig(cfg config.Conf) Config {
	c := cfg.Prefix("SERVICE_PGSQL_")
	url := c.MayString("DBURL", "")
	return Config{PG: PGConfig{
		Enabled:        c.MayBool("ENABLED", url != ""),
		URL:            url,
		MaxConns:       int32(c.MayInt("MAX_CONNS", 8)),
		LogSQL:         c.MayBool("LOG_SQL", false),
		SlowQueryMs:    c.MayInt("SLOW_MS", 200),
		Migrate:        c.MayBool("MIGRATE", true),
		ConnectRetries: c.MayInt("CONNECT_RETRIES", 20),
		PingTimeout:    c.MayDuration("PING_TIMEOUT", 3*time.Second),
	}}
}
