package module

import (
	"time"

	"matchlog/internal/platform/config"
)

// Options holds the auth module settings
type Options struct {
	Secret string
	Issuer string
	Leeway time.Duration
}

// FromConfig reads AUTH_JWT_SECRET (required), AUTH_JWT_ISSUER and AUTH_LEEWAY
func FromConfig(cfg config.Conf) Options {
	ac := cfg.Prefix("AUTH_")
	return Options{
		Secret: ac.MustString("JWT_SECRET"),
		Issuer: ac.MayString("JWT_ISSUER", ""),
		Leeway: ac.MayDuration("LEEWAY", 30*time.Second),
	}
}
