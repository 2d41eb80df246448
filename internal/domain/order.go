package domain

import "time"

// OrderStatus models the kitchen workflow for an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPreparing OrderStatus = "PREPARING"
	OrderStatusReady     OrderStatus = "READY"
	OrderStatusServed    OrderStatus = "SERVED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Valid reports whether the status is one of the known values.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusReady, OrderStatusServed, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderItem is a single line on an order.
type OrderItem struct {
	ID        string
	OrderID   string
	MenuItem  string
	Quantity  int
	UnitPrice float64
	CreatedAt time.Time
}

// Order is a customer order tied to a table.
type Order struct {
	ID        string
	TableID   string
	WaiterID  string
	Status    OrderStatus
	Notes     string
	Items     []OrderItem
	CreatedAt time.Time
	UpdatedAt time.Time
}
