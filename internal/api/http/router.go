package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/restaurant-service/internal/api/http/handlers"
	"github.com/spec-kit/restaurant-service/internal/auth"
	"github.com/spec-kit/restaurant-service/internal/domain"
	"github.com/spec-kit/restaurant-service/internal/ws"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Orders         *handlers.OrdersHandler
	Tables         *handlers.TablesHandler
	Inventory      *handlers.InventoryHandler
	Gateway        *ws.Gateway
	AuthMiddleware *auth.AuthMiddleware
	SlidingToken   fiber.Handler
}

// RegisterRoutes wires HTTP routes. Authenticated routes run the sliding
// token middleware so every request is a renewal candidate.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/register", cfg.Auth.Register)
	app.Post("/auth/login", cfg.Auth.Login)

	app.Use("/ws", ws.UpgradeMiddleware())
	app.Get("/ws", cfg.Gateway.Handler())

	api := app.Group("/api/v1", cfg.AuthMiddleware.Handle, cfg.SlidingToken)

	orders := api.Group("/orders")
	orders.Get("/", cfg.Orders.ListOpen)
	orders.Post("/", auth.RequireRole(domain.RoleWaiter, domain.RoleAdmin), cfg.Orders.Create)
	orders.Patch("/:id/status", auth.RequireRole(domain.RoleKitchen, domain.RoleWaiter, domain.RoleAdmin), cfg.Orders.UpdateStatus)

	tables := api.Group("/tables")
	tables.Get("/", cfg.Tables.List)
	tables.Patch("/:id/status", auth.RequireRole(domain.RoleWaiter, domain.RoleAdmin), cfg.Tables.UpdateStatus)

	inventory := api.Group("/inventory")
	inventory.Get("/", auth.RequireRole(domain.RoleKitchen, domain.RoleAdmin), cfg.Inventory.List)
	inventory.Patch("/:id/stock", auth.RequireRole(domain.RoleKitchen, domain.RoleAdmin), cfg.Inventory.AdjustStock)
}
