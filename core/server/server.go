package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"woki-api/core/cache"
	"woki-api/core/config"
	"woki-api/core/database"
	"woki-api/core/lock"
	"woki-api/core/logger"
	coremiddleware "woki-api/core/middleware"
	"woki-api/core/utils"
	"woki-api/core/worker"
	"woki-api/modules/booking"
	"woki-api/modules/booking/jobs"
	"woki-api/modules/notification"
	"woki-api/modules/venue"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Run bootstraps every subsystem and blocks until SIGINT/SIGTERM.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return err
	}
	if err := db.Bootstrap(context.Background()); err != nil {
		return err
	}

	redisCache, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		return err
	}
	defer redisCache.Close()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: utils.GenerateID,
	}))
	e.Use(coremiddleware.RequestLogger())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	locks := lock.NewRegistry()

	venueRepo := venue.Init(e, db)
	notifSvc := notification.Init(e, db)
	bookingSvc := booking.Init(e, db, redisCache, locks, venueRepo, notifSvc, cfg.Booking)

	var w *worker.Worker
	if cfg.Worker.Enabled {
		w = worker.New(cfg.Redis, cfg.Worker.Concurrency)
		if err := jobs.NewWaitlistJobs(bookingSvc).Register(w, cfg.Worker.PurgeInterval); err != nil {
			return fmt.Errorf("failed to register waitlist jobs: %w", err)
		}
		if err := w.Start(); err != nil {
			return fmt.Errorf("failed to start worker: %w", err)
		}
	}

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("Server:Start:Error", "error", err)
		}
	}()
	logger.Info("Server started", "host", cfg.Server.Host, "port", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down...")

	if w != nil {
		w.Shutdown()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}
