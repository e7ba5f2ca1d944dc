package module

import (
	"testing"

	"matchlog/internal/modkit"
	"matchlog/internal/modkit/httpkit"
	"matchlog/internal/modkit/module"
	"matchlog/internal/platform/config"
	kit "matchlog/internal/platform/testkit"
	"matchlog/internal/services/facts/repo"
	jobsvc "matchlog/internal/services/jobs/service"
)

func TestNewRequiresNeeds(t *testing.T) {
	kit.MustPanic(t, func() { New(modkit.Deps{Cfg: config.New()}) })
}

func TestNewExposesPorts(t *testing.T) {
	auth := httpkit.NewPortFunc(func(string) (string, error) { return "u", nil })
	m := New(modkit.Deps{Cfg: config.New()}, modkit.WithPorts(Needs{
		Auth:    auth,
		Tracker: jobsvc.NewRegistry(),
		Store:   repo.NewMemory(),
	}))
	p := module.MustPortsOf[Ports](m)
	if p.Ingester == nil || p.Waiter == nil || m.Name() != "ingest" {
		t.Fatalf("ports = %+v", p)
	}
}

func TestFromConfig(t *testing.T) {
	t.Setenv("INGEST_MAX_EVENTS", "5000")
	t.Setenv("CORE_API_MAX_UPLOAD_MB", "2")
	o := FromConfig(config.New())
	if o.MaxEvents != 5000 || o.MaxBytes != 2<<20 || o.Pace != 0 {
		t.Fatalf("options = %+v", o)
	}
}
