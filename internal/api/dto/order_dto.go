package dto

import "github.com/spec-kit/restaurant-service/internal/domain"

// OrderItemRequest is one line of a new order.
type OrderItemRequest struct {
	MenuItem  string  `json:"menu_item"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// CreateOrderRequest payload for new orders.
type CreateOrderRequest struct {
	TableID string             `json:"table_id"`
	Notes   string             `json:"notes,omitempty"`
	Items   []OrderItemRequest `json:"items"`
}

// UpdateOrderStatusRequest payload for status transitions.
type UpdateOrderStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

// UpdateTableStatusRequest payload for table transitions.
type UpdateTableStatusRequest struct {
	Status domain.TableStatus `json:"status"`
}

// AdjustStockRequest payload for inventory adjustments.
type AdjustStockRequest struct {
	Delta float64 `json:"delta"`
}
