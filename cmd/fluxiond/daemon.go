// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ManuGH/fluxion/internal/api"
	"github.com/ManuGH/fluxion/internal/config"
	"github.com/ManuGH/fluxion/internal/daemon"
	"github.com/ManuGH/fluxion/internal/dispatcher"
	"github.com/ManuGH/fluxion/internal/echo"
	"github.com/ManuGH/fluxion/internal/fluxion"
	"github.com/ManuGH/fluxion/internal/health"
	xglog "github.com/ManuGH/fluxion/internal/log"
	"github.com/ManuGH/fluxion/internal/telemetry"
	"github.com/ManuGH/fluxion/internal/version"
)

const tracerName = "fluxion"

// runDaemon loads the configuration, wires the runtime, the sample
// listeners and the admin API, then blocks until ctx is cancelled.
func runDaemon(ctx context.Context, configPath string) error {
	loader := config.NewLoader(configPath, version.Version)
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	xglog.Configure(xglog.Config{
		Level:   cfg.Log.Level,
		Service: cfg.Log.Service,
		Version: version.Version,
	})
	logger := xglog.WithComponent("daemon")

	source := "env+defaults"
	if configPath != "" {
		source = "file"
	}
	logger.Info().
		Str(xglog.FieldEvent, "config.loaded").
		Str("source", source).
		Str(xglog.FieldPath, configPath).
		Msg("configuration loaded")

	provider, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Tracing.Enabled,
		ServiceName:    cfg.Log.Service,
		ServiceVersion: version.Version,
		ExporterType:   cfg.Tracing.Exporter,
		Endpoint:       cfg.Tracing.Endpoint,
		SamplingRate:   cfg.Tracing.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}

	rt := fluxion.Init(
		fluxion.WithLogger(xglog.Base()),
		fluxion.WithTracer(telemetry.Tracer(tracerName)),
		fluxion.WithSlowDeliveryThreshold(cfg.Bus.SlowDeliveryThreshold),
	)
	d := rt.Dispatcher()

	echoStore := echo.NewStore(d, cfg.Echo.RejectTags)
	if err := echoStore.Register(); err != nil {
		return fmt.Errorf("register echo store: %w", err)
	}
	if err := d.RegisterReactionView(echo.NewAuditView(xglog.Base())); err != nil {
		return fmt.Errorf("register audit view: %w", err)
	}

	tracingService := ""
	if cfg.Tracing.Enabled {
		tracingService = cfg.Log.Service + "-api"
	}
	srv := api.New(d, api.Config{
		RateLimit:      cfg.API.RateLimit,
		RateWindow:     time.Minute,
		TracingService: tracingService,
		Version:        version.Version,
	})

	srv.HealthManager().RegisterChecker(health.NewListenerChecker(d, dispatcher.TableAction, echo.StoreKey))

	mgr, err := daemon.NewManager(cfg.API.Server(), daemon.Deps{
		Logger:     logger,
		APIHandler: srv.Handler(),
	})
	if err != nil {
		return fmt.Errorf("create daemon manager: %w", err)
	}
	// LIFO: the runtime is torn down before the exporter flushes.
	mgr.RegisterShutdownHook("telemetry", provider.Shutdown)
	mgr.RegisterShutdownHook("fluxion", func(context.Context) error {
		fluxion.Shutdown()
		return nil
	})

	logger.Info().
		Str(xglog.FieldEvent, "startup").
		Str("version", version.Version).
		Str("commit", version.Commit).
		Str("build_date", version.Date).
		Str("addr", cfg.API.ListenAddr).
		Bool("tracing", cfg.Tracing.Enabled).
		Msg("starting fluxiond")

	holder := config.NewHolder(cfg, loader)
	app := daemon.NewApp(logger, mgr, holder, daemon.ConfigApplierFunc(func(next config.AppConfig) {
		echoStore.SetRejectTags(next.Echo.RejectTags)
		logger.Info().
			Str(xglog.FieldEvent, "config.applied").
			Strs("reject_tags", next.Echo.RejectTags).
			Msg("applied reloaded configuration")
	}))
	return app.Run(ctx)
}
