package domain

import "time"

// Role is the coarse category used to route real-time events.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleKitchen Role = "KITCHEN"
	RoleWaiter  Role = "WAITER"
	RoleClient  Role = "CLIENT"
)

// Roles lists every known role in a stable order.
var Roles = []Role{RoleAdmin, RoleKitchen, RoleWaiter, RoleClient}

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleKitchen, RoleWaiter, RoleClient:
		return true
	}
	return false
}

// UserStatus represents lifecycle states for an account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User is the domain model for restaurant accounts (staff and clients alike).
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
