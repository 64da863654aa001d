package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/velotaller/repair-service/internal/api/http/handlers"
	"github.com/velotaller/repair-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Session        *handlers.SessionHandler
	Repairs        *handlers.RepairsHandler
	Statistics     *handlers.StatisticsHandler
	Reports        *handlers.ReportsHandler
	Assets         *handlers.AssetsHandler
	Alerts         *handlers.AlertsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Session.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle)

	protected.Get("/repairs", cfg.Repairs.ListRepairs)
	protected.Post("/repairs", cfg.Repairs.CreateRepair)
	protected.Get("/repairs/recent", cfg.Repairs.RecentRepairs)
	protected.Get("/repairs/brands", cfg.Repairs.ListBrands)
	protected.Put("/repairs/:id", cfg.Repairs.UpdateRepair)
	protected.Post("/repairs/:id/advance", cfg.Repairs.AdvanceStatus)
	protected.Delete("/repairs/:id", cfg.Repairs.DeleteRepair)

	protected.Get("/statistics", cfg.Statistics.GetStatistics)
	protected.Get("/reports/:kind", cfg.Reports.ExportReport)
	protected.Post("/assets", cfg.Assets.UploadAsset)
	protected.Get("/alerts", cfg.Alerts.ListAlerts)
}
