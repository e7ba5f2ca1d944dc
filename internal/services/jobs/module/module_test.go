package module

import (
	"testing"

	"matchlog/internal/modkit"
	"matchlog/internal/modkit/httpkit"
	"matchlog/internal/modkit/module"
	"matchlog/internal/platform/config"
	kit "matchlog/internal/platform/testkit"
)

func TestNewRequiresAuth(t *testing.T) {
	kit.MustPanic(t, func() { New(modkit.Deps{Cfg: config.New()}) })
}

func TestNewExposesPorts(t *testing.T) {
	auth := httpkit.NewPortFunc(func(string) (string, error) { return "u", nil })
	m := New(modkit.Deps{Cfg: config.New()}, modkit.WithPorts(Needs{Auth: auth}))
	p := module.MustPortsOf[Ports](m)
	if p.Tracker == nil || p.Streamer == nil || m.Name() != "jobs" {
		t.Fatalf("ports = %+v", p)
	}
}
