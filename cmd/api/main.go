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

	"github.com/avisosapp/push-backend/api/routes"
	"github.com/avisosapp/push-backend/internal/devices"
	"github.com/avisosapp/push-backend/internal/notifications"
	"github.com/avisosapp/push-backend/internal/webpush"
	"github.com/avisosapp/push-backend/pkg/config"
	"github.com/avisosapp/push-backend/pkg/db"
	"github.com/avisosapp/push-backend/pkg/logger"
	"github.com/avisosapp/push-backend/pkg/metrics"
	"github.com/avisosapp/push-backend/pkg/migrate"
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
	jobMetrics := metrics.NewMaintenanceMetrics(registry)

	deviceRepo := devices.NewRepository(dbClient.DB())
	deviceService, err := devices.NewService(deviceRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create devices service", err)
		os.Exit(1)
	}

	notificationRepo := notifications.NewRepository(dbClient.DB())
	notificationService, err := notifications.NewService(
		notificationRepo,
		notifications.NewRecorder(notificationRepo, logg),
		jobMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	var webPushService webpush.Service
	if cfg.VAPID.Enabled() {
		webPushService, err = webpush.NewService(
			webpush.NewRepository(dbClient.DB()),
			webpush.NewGateway(cfg.VAPID),
		)
		if err != nil {
			logg.Error(context.Background(), "failed to create webpush service", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "VAPID keys not configured, web-push endpoints disabled")
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
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, deviceService, notificationService, webPushService, registry),
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		logg.Info(ctx, "shutdown signal received, draining")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	<-shutdownDone
	logg.Info(ctx, "api server stopped")
}
