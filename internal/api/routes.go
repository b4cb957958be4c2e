package api

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rcalvet/insider-radar/internal/config"
)

func SetupRoutes(app *fiber.App, handler *Handler, cfg *config.Config) {
	// Global middlewares
	app.Use(RequestID())
	app.Use(ErrorHandler())

	// Health checks and metrics stay outside the rate limiter
	app.Get("/health", handler.HealthCheck)
	app.Get("/ready", handler.ReadinessCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := app.Group("/api/v1")
	v1.Use(RateLimiter(cfg.RateLimitPerMin))
	v1.Use(PrometheusMiddleware())

	insider := v1.Group("/insider")
	insider.Get("/report", handler.GetReport)
	insider.Get("/:ticker/transactions", handler.GetTickerTransactions)

	admin := v1.Group("/admin")
	admin.Use(BasicAuth(cfg.AdminUser, cfg.AdminPassword))
	admin.Post("/publish", handler.PublishReport)
}
