package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/restaurant-service/internal/api/dto"
	"github.com/spec-kit/restaurant-service/internal/service"
)

// TablesHandler exposes table state endpoints.
type TablesHandler struct {
	tables *service.TableService
}

// NewTablesHandler constructs handler.
func NewTablesHandler(tables *service.TableService) *TablesHandler {
	return &TablesHandler{tables: tables}
}

// List handles GET /tables.
func (h *TablesHandler) List(c *fiber.Ctx) error {
	tables, err := h.tables.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": tables})
}

// UpdateStatus handles PATCH /tables/:id/status.
func (h *TablesHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateTableStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	table, err := h.tables.UpdateStatus(c.Context(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": table})
}
