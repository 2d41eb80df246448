package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/restaurant-service/internal/api/dto"
	"github.com/spec-kit/restaurant-service/internal/service"
)

// InventoryHandler exposes stock endpoints.
type InventoryHandler struct {
	inventory *service.InventoryService
}

// NewInventoryHandler constructs handler.
func NewInventoryHandler(inventory *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

// List handles GET /inventory.
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	items, err := h.inventory.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": items})
}

// AdjustStock handles PATCH /inventory/:id/stock.
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	var req dto.AdjustStockRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	item, err := h.inventory.AdjustStock(c.Context(), c.Params("id"), req.Delta)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": item})
}
