package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"bidscope/internal/geo/cache"
	"bidscope/internal/geo/static"
	"bidscope/internal/geo/traced"
	"bidscope/internal/platform/config"
	"bidscope/internal/platform/health"
	"bidscope/internal/platform/httpserver"
	"bidscope/internal/platform/logger"
	platformredis "bidscope/internal/platform/redis"
	"bidscope/internal/privacy/metrics"
	"bidscope/internal/privacy/ports"
	"bidscope/internal/privacy/service"
	httptransport "bidscope/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	log.Info("initializing bidscope",
		"addr", cfg.Addr,
		"gdpr_enabled", cfg.Gdpr.Enabled,
		"gdpr_default_applies", cfg.Gdpr.DefaultApplies,
	)

	healthHandler := health.New(os.Getenv("ENVIRONMENT"))

	geo, redisClient, err := buildGeoProvider(cfg, log, healthHandler)
	if err != nil {
		log.Error("geo provider init failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck // best-effort on shutdown
		go reportPoolStats(redisClient)
	}

	opts := []service.Option{
		service.WithMetrics(metrics.New()),
		service.WithLogger(log),
		service.WithGeoTimeout(cfg.GeoTimeout),
	}
	if geo != nil {
		opts = append(opts, service.WithGeoLocation(geo))
	}

	// TODO: swap allowAllEngine for the per-purpose TCF permission engine
	// once its service is deployed.
	scope := service.New(cfg.Gdpr, cfg.EEACountries, allowAllEngine{}, opts...)

	handler := httptransport.NewHandler(scope, log)
	router := httptransport.NewRouter(handler, healthHandler, log)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}

// buildGeoProvider assembles the lookup chain: static table, optionally
// fronted by the shared Redis cache, always traced. Returns nil when no geo
// table is configured.
func buildGeoProvider(cfg config.Server, log *slog.Logger, healthHandler *health.Handler) (ports.GeoLocationService, *platformredis.Client, error) {
	if cfg.GeoTablePath == "" {
		log.Info("geolocation disabled: no geo table configured")
		return nil, nil, nil
	}

	var geo ports.GeoLocationService
	geo, err := static.FromCSVFile(cfg.GeoTablePath)
	if err != nil {
		return nil, nil, err
	}

	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	if redisClient != nil {
		geo = cache.New(geo, cache.NewRedisStore(redisClient.Client),
			cache.WithTTL(cfg.GeoCacheTTL),
			cache.WithLogger(log),
		)
		healthHandler.RegisterCheck("redis", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			return redisClient.Health(ctx)
		})
	}

	return traced.New(geo), redisClient, nil
}

// reportPoolStats feeds the Redis pool gauges for the lifetime of the process.
func reportPoolStats(client *platformredis.Client) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		client.RecordPoolStats()
	}
}
