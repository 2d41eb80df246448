package events

import (
	"time"

	"github.com/spec-kit/restaurant-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventOrderCreated       EventType = "order_created"
	EventOrderStatusChanged EventType = "order_status_changed"
	EventOrderReady         EventType = "order_ready"
	EventTableStatusChanged EventType = "table_status_changed"
	EventInventoryAlert     EventType = "inventory_alert"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// OrderPayload accompanies order lifecycle events.
type OrderPayload struct {
	OrderID     string             `json:"order_id"`
	TableID     string             `json:"table_id"`
	TableNumber int                `json:"table_number"`
	Status      domain.OrderStatus `json:"status"`
	ItemCount   int                `json:"item_count"`
}

// OrderStatusChangedPayload accompanies status transitions.
type OrderStatusChangedPayload struct {
	OrderID   string             `json:"order_id"`
	OldStatus domain.OrderStatus `json:"old_status"`
	NewStatus domain.OrderStatus `json:"new_status"`
}

// TableStatusChangedPayload accompanies table status transitions.
type TableStatusChangedPayload struct {
	TableID   string             `json:"table_id"`
	Number    int                `json:"number"`
	OldStatus domain.TableStatus `json:"old_status"`
	NewStatus domain.TableStatus `json:"new_status"`
}

// InventoryAlertPayload accompanies low-stock alerts.
type InventoryAlertPayload struct {
	ItemID   string  `json:"item_id"`
	Name     string  `json:"name"`
	Stock    float64 `json:"stock"`
	MinStock float64 `json:"min_stock"`
	Unit     string  `json:"unit"`
}
