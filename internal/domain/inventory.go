package domain

import "time"

// InventoryItem is a stocked ingredient with a low-stock threshold.
type InventoryItem struct {
	ID        string
	Name      string
	Unit      string
	Stock     float64
	MinStock  float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LowStock reports whether the item has fallen to or below its threshold.
func (i InventoryItem) LowStock() bool {
	return i.Stock <= i.MinStock
}
