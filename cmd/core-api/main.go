package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"

	"github.com/car-leasing/core-api/internal/auth"
	"github.com/car-leasing/core-api/internal/cache"
	"github.com/car-leasing/core-api/internal/clients"
	"github.com/car-leasing/core-api/internal/config"
	"github.com/car-leasing/core-api/internal/logging"
	"github.com/car-leasing/core-api/internal/metrics"
	"github.com/car-leasing/core-api/internal/middleware"
	"github.com/car-leasing/core-api/internal/repository"
	"github.com/car-leasing/core-api/internal/routes"
	"github.com/car-leasing/core-api/internal/search"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger := logging.New(cfg)

	// Initialize metrics
	if err := metrics.Init(); err != nil {
		logger.WithError(err).Fatal("Failed to initialize metrics")
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "core-api",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			logger.WithError(err).WithFields(logrus.Fields{
				"method": c.Method(),
				"path":   c.Path(),
				"status": code,
			}).Error("Request error")

			return c.Status(code).JSON(fiber.Map{
				"error": "internal server error",
			})
		},
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(helmet.New())
	app.Use(cors.New())
	app.Use(metrics.HTTPMetricsMiddleware())
	app.Use(middleware.NewErrorLoggerMiddleware(logger).Handle())

	ctx := context.Background()

	// Shared clients, each constructed exactly once.
	repo, err := repository.New(ctx, &cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}

	redisClient, err := cache.New(&cfg.Redis, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}

	searchClient := search.New(&cfg.Meilisearch, logger)
	leaseClient := clients.NewLeaseClient(&cfg.LeaseService, logger)

	if cfg.JWT.Secret == "dev-secret" {
		logger.Warn("JWT secret not configured, using insecure development default")
	}
	issuer := auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Expiration)
	authService := auth.NewService(repo, issuer, logger)

	// Setup routes
	routes.Setup(app, cfg, logger, &routes.Dependencies{
		Auth:   authService,
		Search: searchClient,
		Leases: leaseClient,
		Ready: []routes.ReadyCheck{
			{Name: "postgres", Check: repo.Ping},
			{Name: "redis", Check: cache.HealthCheck(redisClient, logger)},
		},
	})

	// Graceful shutdown
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	// Start server
	logger.WithField("addr", cfg.Server.Addr()).Info("Starting core-api server")
	if err := serve(app, cfg.Server.Addr(), logger, sigs, func() {
		if err := redisClient.Close(); err != nil {
			logger.WithError(err).Error("Failed to close Redis client")
		}
		repo.Close()
	}); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}

	logger.Info("Shutdown complete")
}

// serve blocks until the server stops. The release callback runs in this
// goroutine after Listen has returned, so a signal-triggered shutdown
// cannot race process exit before the shared clients are closed.
func serve(app *fiber.App, addr string, logger *logrus.Logger, sigs <-chan os.Signal, release func()) error {
	go func() {
		<-sigs
		logger.Info("Gracefully shutting down...")
		if err := app.Shutdown(); err != nil {
			logger.WithError(err).Error("Server shutdown failed")
		}
	}()

	err := app.Listen(addr)
	release()
	return err
}
