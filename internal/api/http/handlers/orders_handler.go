package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/restaurant-service/internal/api/dto"
	"github.com/spec-kit/restaurant-service/internal/auth"
	"github.com/spec-kit/restaurant-service/internal/domain"
	"github.com/spec-kit/restaurant-service/internal/service"
)

// OrdersHandler exposes the order workflow.
type OrdersHandler struct {
	orders *service.OrderService
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(orders *service.OrderService) *OrdersHandler {
	return &OrdersHandler{orders: orders}
}

// Create handles POST /orders.
func (h *OrdersHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.TableID == "" {
		return fiber.NewError(http.StatusBadRequest, "table_id required")
	}

	order := &domain.Order{
		TableID:  req.TableID,
		WaiterID: principal.SubjectID,
		Notes:    req.Notes,
	}
	for _, item := range req.Items {
		order.Items = append(order.Items, domain.OrderItem{
			MenuItem:  item.MenuItem,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	created, err := h.orders.Create(c.Context(), order)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": created})
}

// UpdateStatus handles PATCH /orders/:id/status.
func (h *OrdersHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	order, err := h.orders.UpdateStatus(c.Context(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": order})
}

// ListOpen handles GET /orders.
func (h *OrdersHandler) ListOpen(c *fiber.Ctx) error {
	orders, err := h.orders.ListOpen(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": orders})
}
