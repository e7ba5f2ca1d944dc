// @title         matchlog API
// @version       0.1.0
// @description   Upload a Hinge export, follow its classification, read back matches and likes

package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"matchlog/internal/core/version"
	"matchlog/internal/modkit/repokit"
	"matchlog/internal/platform/config"
	"matchlog/internal/platform/logger"
	"matchlog/internal/platform/metrics"
	phttp "matchlog/internal/platform/net/http"
	"matchlog/internal/platform/store"

	"matchlog/internal/services/api"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	lo := logger.FromEnv()
	lo.Service = api.ServiceName
	logger.Init(lo)
	l := logger.Get()

	st, err := store.Open(ctx, store.FromConfig(root), store.WithLogger(*logger.Named("store")))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	repokit.MustGuard(ctx, st)

	opt := api.OptionsFromConfig(root)
	opt.Base = ctx
	opt.Store = st
	opt.Logger = l
	opt.Metrics = metrics.New("matchlog", version.Info(api.ServiceName).Version)

	srv := phttp.NewServer(apiCfg)
	a := api.Mount(srv.Router(), opt)

	errc := make(chan error, 1)
	go func() { errc <- srv.Run(ctx) }()

	select {
	case err := <-errc:
		if err != nil {
			l.Panic().Err(err).Msg("http server stopped")
		}
		return
	case <-ctx.Done():
	}

	l.Info().Msg("shutting down")
	grace := apiCfg.MayDuration("SHUTDOWN_GRACE", 15*time.Second)
	sctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		l.Error().Err(err).Msg("http shutdown")
	}
	// runs see ctx canceled and fail their jobs; wait so none commits after the pool closes
	if err := a.Waiter.Wait(sctx); err != nil {
		l.Warn().Err(err).Msg("uploads still running at exit")
	}
}
