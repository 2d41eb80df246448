package domain

import "time"

// TableStatus tracks seating availability.
type TableStatus string

const (
	TableStatusAvailable TableStatus = "AVAILABLE"
	TableStatusOccupied  TableStatus = "OCCUPIED"
	TableStatusReserved  TableStatus = "RESERVED"
)

// Table is a physical restaurant table.
type Table struct {
	ID        string
	Number    int
	Seats     int
	Status    TableStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
