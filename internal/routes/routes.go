package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/car-leasing/core-api/internal/config"
	"github.com/car-leasing/core-api/internal/metrics"
)

// ReadyCheck is a named readiness probe over a shared client.
type ReadyCheck struct {
	Name  string
	Check func(context.Context) error
}

// Dependencies carries the process-wide shared clients into the route
// handlers. Everything here is constructed exactly once at startup.
type Dependencies struct {
	Auth   Authenticator
	Search LeaseSearcher
	Leases LeaseFetcher
	Ready  []ReadyCheck
}

// Setup configures all API routes
func Setup(app *fiber.App, cfg *config.Config, logger *logrus.Logger, deps *Dependencies) {
	authHandler := NewAuthHandler(deps.Auth, logger)
	leaseHandler := NewLeaseHandler(deps.Search, deps.Leases, logger)

	// Liveness endpoint: no dependency on downstream services.
	app.Get("/health", healthCheck)
	app.Get("/readyz", readinessCheck(deps.Ready))

	// Metrics endpoint (no auth required)
	app.Get("/metrics", metrics.PrometheusHandler())

	// Auth routes
	authRoutes := app.Group("/auth")
	authRoutes.Post("/login", authHandler.Login)

	// Lease routes
	api := app.Group("/api/v1")
	leaseRoutes := api.Group("/leases")
	leaseRoutes.Get("/", leaseHandler.Search)
	leaseRoutes.Get("/:id", leaseHandler.GetByID)

	// 404 handler
	app.Use(notFoundHandler)
}

func healthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

// readinessCheck reports 503 while any shared client is unreachable.
func readinessCheck(checks []ReadyCheck) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()

		for _, check := range checks {
			if err := check.Check(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"status": "not ready",
					"reason": check.Name + " unavailable",
				})
			}
		}

		return c.JSON(fiber.Map{
			"status": "ready",
		})
	}
}

// notFoundHandler handles 404 errors
func notFoundHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "resource not found",
	})
}
