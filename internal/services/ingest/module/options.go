package module

import (
	"time"

	"matchlog/internal/platform/config"
)

// Options holds the ingest module settings
type Options struct {
	Pace      time.Duration
	MaxEvents int
	MaxBytes  int64
}

// FromConfig reads INGEST_PACE, INGEST_MAX_EVENTS and CORE_API_MAX_UPLOAD_MB
func FromConfig(cfg config.Conf) Options {
	ic := cfg.Prefix("INGEST_")
	mb := cfg.Prefix("CORE_API_").MayInt("MAX_UPLOAD_MB", 32)
	return Options{
		Pace:      ic.MayDuration("PACE", 0),
		MaxEvents: ic.MayInt("MAX_EVENTS", 0),
		MaxBytes:  int64(mb) << 20,
	}
}
