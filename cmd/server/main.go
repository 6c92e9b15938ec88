// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	_ "github.com/tomtom215/moviehub/docs" // swagger spec
	"github.com/tomtom215/moviehub/internal/admin"
	"github.com/tomtom215/moviehub/internal/api"
	"github.com/tomtom215/moviehub/internal/auth"
	"github.com/tomtom215/moviehub/internal/authz"
	"github.com/tomtom215/moviehub/internal/catalog"
	"github.com/tomtom215/moviehub/internal/config"
	"github.com/tomtom215/moviehub/internal/discussion"
	"github.com/tomtom215/moviehub/internal/events"
	"github.com/tomtom215/moviehub/internal/logging"
	"github.com/tomtom215/moviehub/internal/media"
	"github.com/tomtom215/moviehub/internal/supervisor"
	ws "github.com/tomtom215/moviehub/internal/websocket"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("database", cfg.Database.Driver).
		Str("uploads", cfg.Uploads.Driver).
		Msg("Starting MovieHub")
	if cfg.GeneratedJWTSecret {
		logging.Warn().Msg("JWT_SECRET not set; using an ephemeral secret, tokens will not survive a restart")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		stop()
		logging.Fatal().Err(err).Msg("MovieHub stopped with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

// run wires every component and blocks until ctx is canceled. The store
// is closed last, after the HTTP server has drained.
func run(ctx context.Context, cfg *config.Config) error {
	st, err := openStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	images, err := media.New(ctx, cfg.Uploads)
	if err != nil {
		return err
	}

	bus := events.NewBus(cfg.Events)
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	tokens, err := auth.NewTokenManager(cfg.Security)
	if err != nil {
		return err
	}
	throttle := auth.NewLoginThrottle(cfg.Security.LoginAttemptsPerMinute)
	authSvc, err := auth.NewService(st, tokens, throttle, cfg.Security, bus)
	if err != nil {
		return err
	}
	if err := authSvc.EnsureAdmin(ctx, cfg.Security); err != nil {
		return err
	}
	enforcer, err := authz.NewEnforcer(cfg.Security.Casbin)
	if err != nil {
		return err
	}

	hub := ws.NewHub()
	eventRouter := events.NewRouter(bus, hub)

	handler := api.NewHandler(cfg, api.Services{
		Auth:       authSvc,
		Catalog:    catalog.NewService(st, images, bus, cfg.API),
		Discussion: discussion.NewService(st, bus, cfg.API),
		Admin:      admin.NewService(st, images, bus, cfg.API),
		Store:      st,
	})
	router := api.NewRouter(handler, auth.NewMiddleware(authSvc), authz.NewMiddleware(enforcer), ws.NewHandler(hub, cfg.Security.CORSOrigins))
	if disk, ok := images.(*media.DiskStore); ok {
		router.ServeUploads(disk.URLPrefix(), disk.Handler())
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddDataService(eventRouter)
	tree.AddMessagingService(hub)
	tree.AddMessagingService(throttle)
	tree.AddAPIService(supervisor.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Str("base_path", cfg.Server.BasePath).Msg("HTTP server service added")

	err = <-tree.ServeBackground(ctx)

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
