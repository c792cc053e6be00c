package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/tour-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/tour-booking/internal/db"
	"github.com/BruksfildServices01/tour-booking/internal/jobs"
	"github.com/BruksfildServices01/tour-booking/internal/routes"
	"github.com/BruksfildServices01/tour-booking/internal/validators"
)

const shutdownTimeout = 20 * time.Second

func main() {

	cfg := config.Load()

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	db := dbpkg.NewDB(cfg)
	validators.Register()

	svc, err := routes.NewServices(db, cfg)
	if err != nil {
		slog.Error("failed to build services", "error", err)
		os.Exit(1)
	}

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, svc)

	// ------------------------------
	// background jobs
	// ------------------------------
	scheduler := jobs.NewScheduler(svc.Rules.Location)
	if cfg.JobsEnabled {
		reminder := jobs.NewPendingReminder(svc.Repo, svc.Audit, svc.Rules.Location)
		if err := scheduler.AddPendingReminder(cfg.PendingReminderSpec, reminder); err != nil {
			slog.Error("failed to schedule jobs", "error", err)
			os.Exit(1)
		}
		scheduler.Start()
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server running", "addr", cfg.Addr(), "timezone", cfg.Timezone)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if err != nil {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}
	scheduler.Stop(ctx)
	svc.Audit.Close()

	slog.Info("server stopped")
}
