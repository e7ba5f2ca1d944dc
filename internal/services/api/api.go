// Package api composes the modules into the HTTP API
package api

import (
	"context"
	"time"

	"matchlog/internal/modkit"
	"matchlog/internal/modkit/httpkit"
	"matchlog/internal/modkit/module"
	"matchlog/internal/modkit/swaggerkit"
	"matchlog/internal/platform/config"
	"matchlog/internal/platform/logger"
	"matchlog/internal/platform/metrics"
	phttp "matchlog/internal/platform/net/http"
	"matchlog/internal/platform/net/middleware"
	"matchlog/internal/platform/store"

	metamod "matchlog/internal/services/api/meta/module"
	authmod "matchlog/internal/services/auth/module"
	factsmod "matchlog/internal/services/facts/module"
	ingestdom "matchlog/internal/services/ingest/domain"
	ingestmod "matchlog/internal/services/ingest/module"
	jobsmod "matchlog/internal/services/jobs/module"
	peoplemod "matchlog/internal/services/people/module"
)

// ServiceName labels logs, metrics and /meta/version
const ServiceName = "matchlog-api"

// Options are the API options
type Options struct {
	// Base outlives every request; background uploads run on it
	Base    context.Context
	Config  config.Conf
	Store   *store.Store
	Logger  *logger.Logger
	Metrics *metrics.Collector

	EnableSwagger  bool
	EnableProfiler bool
	EnableMetrics  bool
	CORSOrigins    []string
	RequestTimeout time.Duration
	SlowRequest    time.Duration
}

// OptionsFromConfig reads the CORE_API_ flags. cfg is the root config
func OptionsFromConfig(cfg config.Conf) Options {
	ac := cfg.Prefix("CORE_API_")
	return Options{
		Config:         cfg,
		EnableSwagger:  ac.MayBool("SWAGGER", true),
		EnableProfiler: ac.MayBool("PROFILER", false),
		EnableMetrics:  ac.MayBool("METRICS", true),
		CORSOrigins:    ac.MayCSV("CORS_ORIGINS", nil),
		RequestTimeout: ac.MayDuration("REQUEST_TIMEOUT", 30*time.Second),
		SlowRequest:    ac.MayDuration("SLOW_REQUEST", time.Second),
	}
}

// API is what the binary needs after mounting
type API struct {
	// Waiter drains background uploads on shutdown
	Waiter ingestdom.Waiter
}

// Mount builds every module and mounts it onto r. It panics on wiring errors
func Mount(r phttp.Router, opt Options) *API {
	log := opt.Logger
	if log == nil {
		log = logger.Get()
	}
	deps := modkit.Deps{
		Base:    opt.Base,
		Log:     *log,
		Cfg:     opt.Config,
		Metrics: opt.Metrics,
	}
	if opt.Store != nil {
		deps.PG = opt.Store.PG
	}

	r.Use(middleware.Heartbeat("/health"))

	auth := authmod.New(deps)
	authPort := module.MustPortsOf[authmod.Ports](auth).Auth

	facts := factsmod.New(deps)
	factStore := module.MustPortsOf[factsmod.Ports](facts).Store

	jobs := jobsmod.New(deps, modkit.WithPorts(jobsmod.Needs{Auth: authPort}))
	tracker := module.MustPortsOf[jobsmod.Ports](jobs).Tracker

	ingest := ingestmod.New(deps,
		modkit.WithPorts(ingestmod.Needs{Auth: authPort, Tracker: tracker, Store: factStore}),
		modkit.WithMiddlewares(middleware.Timeout(opt.RequestTimeout)),
	)
	people := peoplemod.New(deps,
		modkit.WithPorts(peoplemod.Needs{Auth: authPort, Store: factStore}),
		modkit.WithMiddlewares(middleware.Timeout(opt.RequestTimeout)),
	)

	mods := []module.Module{
		metamod.New(deps, ServiceName),
		auth,
		facts,
		jobs,
		ingest,
		people,
	}

	stack := httpkit.CommonStack(httpkit.StackOptions{CORSOrigins: opt.CORSOrigins, Slow: opt.SlowRequest})
	stack = append(stack, opt.Metrics.Middleware)

	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(api)
			log.Debug().Str("module", m.Name()).Msg("module mounted")
		}
	})

	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)
	if opt.EnableMetrics {
		r.Handle("/metrics", opt.Metrics.Handler())
	}

	return &API{Waiter: module.MustPortsOf[ingestmod.Ports](ingest).Waiter}
}
