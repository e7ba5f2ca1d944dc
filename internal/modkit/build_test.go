package modkit

import (
	"net/http"
	"testing"

	"matchlog/internal/modkit/httpkit"
)

func TestBuildDefaults(t *testing.T) {
	b := Build()
	if b.Name != "" || b.Prefix != "" || b.Ports != nil || len(b.Mw) != 0 {
		t.Fatalf("defaults = %+v", b)
	}
	b.Register(nil)
}

func TestBuildOptions(t *testing.T) {
	type ports struct{ n int }
	mark := func(next http.Handler) http.Handler { return next }
	var registered bool

	opts := []Option{
		WithName("jobs"),
		WithPrefix("/first"),
		WithPrefix("/jobs"),
		WithMiddlewares(mark),
		WithMiddlewares(mark),
		WithPorts(ports{n: 3}),
		WithRegister(func(httpkit.Router) { registered = true }),
	}
	b := Build(opts...)
	if b.Name != "jobs" || b.Prefix != "/jobs" {
		t.Fatalf("later options should win: %+v", b)
	}
	if len(b.Mw) != 2 {
		t.Fatalf("middlewares = %d", len(b.Mw))
	}
	if p, ok := b.Ports.(ports); !ok || p.n != 3 {
		t.Fatalf("ports = %#v", b.Ports)
	}
	b.Register(nil)
	if !registered {
		t.Fatalf("register hook not kept")
	}

	b.Mw[0] = nil
	if Build(opts...).Mw[0] == nil {
		t.Fatalf("Built must own its middleware slice")
	}
}
