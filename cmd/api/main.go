package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/config"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
	appHTTP "github.com/cmlabs-hris/attendance-dashboard-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/repository/backend"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/repository/postgresql"
	dashboardService "github.com/cmlabs-hris/attendance-dashboard-go/internal/service/dashboard"
)

const (
	expireCheckInterval = time.Minute
	shutdownTimeout     = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := appHTTP.NewLogger(os.Stdout, cfg.SlogLevel(), cfg.App.Env)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// Attendance data source
	var repo attendance.AttendanceRepository
	switch cfg.Backend.Type {
	case config.BackendPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{MaxConns: cfg.Database.MaxConns})
		if err != nil {
			return fmt.Errorf("error connecting to database: %w", err)
		}
		defer db.Close()

		if cfg.Database.EnsureSchema {
			if err := postgresql.EnsureSchema(ctx, db); err != nil {
				return err
			}
		}
		repo = postgresql.NewAttendanceRepository(db, loc)
	default:
		repo = backend.NewAttendanceRepository(cfg.Backend.BaseURL, &http.Client{Timeout: cfg.Backend.Timeout})
	}
	slog.Info("Attendance backend selected", "type", cfg.Backend.Type, "base_url", cfg.Backend.BaseURL)

	hub := sse.NewHub()
	dashboardSvc := dashboardService.NewDashboardService(repo, hub, dashboardService.Config{
		Location:    loc,
		Lang:        cfg.Language(),
		PageSize:    cfg.Dashboard.DefaultPageSize,
		IdleTimeout: cfg.Dashboard.SessionIdleTimeout,
	})

	scheduler := cron.NewScheduler()
	dashboardJobs := cron.NewDashboardJobs(dashboardSvc, cfg.Dashboard.RefreshInterval, expireCheckInterval)
	if err := dashboardJobs.RegisterJobs(scheduler); err != nil {
		return fmt.Errorf("error registering cron jobs: %w", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	healthHandler := appHTTP.NewHealthHandler(repo, dashboardSvc)
	sessionHandler := appHTTP.NewSessionHandler(dashboardSvc, hub)

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		Logger:         logger,
		AllowedOrigins: cfg.App.CORSAllowedOrigins,
	}, healthHandler, sessionHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Request contexts end on shutdown so SSE streams return
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", "http://localhost"+server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	return nil
}
