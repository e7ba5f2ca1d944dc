package module

import (
	"time"

	"matchlog/internal/platform/config"
)

// Options holds the jobs module settings
type Options struct {
	PollInterval  time.Duration
	StreamTimeout time.Duration
}

// FromConfig reads JOBS_POLL_INTERVAL and JOBS_STREAM_TIMEOUT
func FromConfig(cfg config.Conf) Options {
	jc := cfg.Prefix("JOBS_")
	return Options{
		PollInterval:  jc.MayDuration("POLL_INTERVAL", 500*time.Millisecond),
		StreamTimeout: jc.MayDuration("STREAM_TIMEOUT", 10*time.Minute),
	}
}
