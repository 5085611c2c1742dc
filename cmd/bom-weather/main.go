package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	httpapi "github.com/i474232898/bom-weather-sync/internal/api/http"
	"github.com/i474232898/bom-weather-sync/internal/config"
	"github.com/i474232898/bom-weather-sync/internal/host"
	"github.com/i474232898/bom-weather-sync/internal/logging"
	"github.com/i474232898/bom-weather-sync/internal/metrics"
	"github.com/i474232898/bom-weather-sync/internal/scheduler"
	"github.com/i474232898/bom-weather-sync/internal/store"
	"github.com/i474232898/bom-weather-sync/internal/weather"
	"github.com/i474232898/bom-weather-sync/internal/weather/providers"
)

const appName = "bom-weather-sync"

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	log := logging.New(os.Stdout, cfg, appName)
	slog.SetDefault(log)

	stations, err := store.NewStationStore(cfg.DefaultStation, cfg.StationFile)
	if err != nil {
		log.Error("failed to load station", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Foreground goroutine owning the environment.
	env := host.NewEnvironment()
	fg := host.NewForeground(env, host.LogBroadcaster{Logger: log}, log)
	fgDone := make(chan struct{})
	go func() {
		defer close(fgDone)
		fg.Run(ctx)
	}()

	// Shared HTTP client for the feed; its timeout bounds each fetch.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	bom := providers.NewBOMProvider(providers.HTTPClientConfig{
		Client:             httpClient,
		BreakerMaxFailures: cfg.BreakerMaxFailures,
	}, cfg.BaseURL, cfg.UserAgent)

	service := weather.NewService(bom, stations, weather.NewTracker(weather.LastState{}), fg, m, log)

	st := stations.Station()
	log.Info("using station", "product", st.Product, "station_id", st.ID, "url", bom.URL(st))

	sched := scheduler.New(cfg.FetchInterval, service, log)
	if err := sched.Start(); err != nil {
		log.Error("failed to start scheduler", "err", err)
		os.Exit(1)
	}

	app := fiber.New(fiber.Config{
		AppName:               appName,
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

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": appName,
		})
	})

	httpapi.RegisterRoutes(app, httpapi.Deps{
		Weather:     service,
		Stations:    stations,
		Trigger:     sched,
		Environment: env,
		Gatherer:    reg,
		AdminToken:  cfg.AdminToken,
		Logger:      log,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("fiber server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown", "err", err)
	}
	sched.Stop()
	<-fgDone
}
