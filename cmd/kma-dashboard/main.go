package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jonboulle/clockwork"

	httpapi "github.com/jiwonseo/kma-dashboard/internal/api/http"
	"github.com/jiwonseo/kma-dashboard/internal/config"
	"github.com/jiwonseo/kma-dashboard/internal/forecast"
	"github.com/jiwonseo/kma-dashboard/internal/kma"
	"github.com/jiwonseo/kma-dashboard/internal/notices"
	"github.com/jiwonseo/kma-dashboard/internal/scheduler"
	"github.com/jiwonseo/kma-dashboard/internal/settings"
	"github.com/jiwonseo/kma-dashboard/internal/store/sqlite"
	"github.com/jiwonseo/kma-dashboard/internal/video"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound upstream calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Persistent snapshot store.
	db, err := sqlite.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer db.Close()

	clock := clockwork.NewRealClock()

	// Upstream bulletin fetcher with resilience (backoff + circuit breaker).
	fetcher := kma.NewClient(httpClient, cfg.KMAServiceKey, cfg.KMABaseURL, clock)

	// Core service orchestrating fetcher and store.
	service := forecast.NewService(db, fetcher, clock, cfg.GridX, cfg.GridY)

	// Runtime-mutable settings and the video rotation.
	runtimeSettings := settings.New(cfg.RefreshInterval)
	rotator := video.New(cfg.VideoIDs)

	// Scheduler that periodically fetches bulletins and prunes old ones.
	sched := scheduler.New(service, runtimeSettings, cfg.RetentionDays)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "kma-dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "kma-dashboard",
		})
	})

	// API routes. The notices provider is the external-collaborator
	// boundary; swap in a live implementation when one is deployed.
	httpapi.RegisterRoutes(app, httpapi.Deps{
		Forecast: service,
		Settings: runtimeSettings,
		Videos:   rotator,
		Notices:  notices.NewStaticProvider(nil),
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
