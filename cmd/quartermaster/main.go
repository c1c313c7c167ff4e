package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"quartermaster/internal/api"
	"quartermaster/internal/api/handlers"
	"quartermaster/internal/auth"
	"quartermaster/internal/config"
	"quartermaster/internal/repository/postgres"
	"quartermaster/internal/service"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	if err := run(log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := postgres.RunMigrations(cfg.DB.DSN()); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DB.DSN())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	store := postgres.NewStore(pool)

	deviceSvc := service.NewDeviceService(store, log)
	maintenanceSvc := service.NewMaintenanceService(store, log)
	reportSvc := service.NewReportService(store, log)
	exportSvc := service.NewExportService(store, reportSvc, log)

	jwtMgr := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry)

	authHandler, err := handlers.NewAuthHandler(jwtMgr, cfg.Auth, log)
	if err != nil {
		return fmt.Errorf("init auth handler: %w", err)
	}

	router := api.NewRouter(api.RouterDeps{
		Auth:        authHandler,
		Devices:     handlers.NewDeviceHandler(deviceSvc, log),
		Maintenance: handlers.NewMaintenanceHandler(maintenanceSvc, log),
		Reports:     handlers.NewReportHandler(reportSvc, log),
		Exports:     handlers.NewExportHandler(exportSvc, log),
		Users:       handlers.NewUserHandler(),
		JWT:         jwtMgr,
		CORS:        cfg.CORS,
		Log:         log,
	})

	server := &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}
