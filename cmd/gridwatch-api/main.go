// @title         gridwatch API
// @version       0.1.0
// @description   Outage schedule, weather, air raid alerts, inverter telemetry and push for one locality
// @BasePath      /api

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"golang.org/x/sync/errgroup"

	"gridwatch/internal/core/version"
	"gridwatch/internal/platform/clock"
	"gridwatch/internal/platform/config"
	"gridwatch/internal/platform/logger"
	"gridwatch/internal/platform/metrics"
	phttp "gridwatch/internal/platform/net/http"

	"gridwatch/internal/services/api"
)

func main() {
	root := config.New()

	// bring up logging early
	opts := logger.FromEnv()
	if opts.Service == "" {
		opts.Service = version.Service
	}
	logger.Init(opts)
	l := logger.Get()

	loc := root.MayLocation("TZ_NAME", "Europe/Kyiv")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// http server (reads API_PORT, API_READ_HEADER_TIMEOUT, API_IDLE_TIMEOUT)
	srv := phttp.NewServer(root)

	// mount our API
	workers := api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Metrics:        metrics.New(),
			Clock:          clock.System{},
			Loc:            loc,
			EnableSwagger:  root.MayBool("API_SWAGGER", true),
			EnableProfiler: root.MayBool("API_PROFILER", false),
		},
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, w := range workers {
		g.Go(func() error {
			l.Info().Str("worker", w.Name).Msg("worker started")
			err := w.Run(gctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}
	g.Go(func() error { return srv.Run(gctx) })

	l.Info().Str("tz", loc.String()).Int("workers", len(workers)).Msg("gridwatch up")

	// run
	if err := g.Wait(); err != nil {
		l.Panic().Err(err).Msg("gridwatch stopped")
	}
	l.Info().Msg("gridwatch stopped")
}
