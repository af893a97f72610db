package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/rmoralesdev/mediavault-backend/api/routes"
	authsvc "github.com/rmoralesdev/mediavault-backend/internal/auth"
	"github.com/rmoralesdev/mediavault-backend/internal/gallery"
	"github.com/rmoralesdev/mediavault-backend/internal/uploads"
	"github.com/rmoralesdev/mediavault-backend/pkg/config"
	"github.com/rmoralesdev/mediavault-backend/pkg/db"
	"github.com/rmoralesdev/mediavault-backend/pkg/logger"
	"github.com/rmoralesdev/mediavault-backend/pkg/metrics"
	"github.com/rmoralesdev/mediavault-backend/pkg/migrate"
	"github.com/rmoralesdev/mediavault-backend/pkg/storage/cdn"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if cfg.Admin.UsesPlaintextPassword() {
		logg.Warn(context.Background(), "admin password configured as plaintext, set MEDIAVAULT_ADMIN_PASSWORD_HASH for production")
	}

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	galleryMetrics := metrics.NewGalleryMetrics(registry)

	repo := gallery.NewRepository(dbClient.DB())
	if err := repo.EnsureSchema(context.Background()); err != nil {
		logg.Error(context.Background(), "failed to ensure media schema", err)
		os.Exit(1)
	}

	var uploader cdn.Uploader
	cdnClient, err := cdn.NewClient(context.Background(), cfg.CDN, logg)
	switch {
	case errors.Is(err, cdn.ErrNotConfigured):
		logg.Warn(context.Background(), "cdn credentials absent, bulk upload disabled")
	case err != nil:
		logg.Error(context.Background(), "failed to create cdn client", err)
		os.Exit(1)
	default:
		uploader = cdnClient
	}

	authService, err := authsvc.NewService(cfg.Admin, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	galleryService, err := gallery.NewService(repo, logg, galleryMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create gallery service", err)
		os.Exit(1)
	}

	uploadService, err := uploads.NewService(repo, uploader, cfg.CDN, cfg.Media, logg, galleryMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create upload service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, registry, dbClient, authService, galleryService, uploadService),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}
