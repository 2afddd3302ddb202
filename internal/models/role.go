package models

import (
	"time"

	"github.com/google/uuid"
)

// AppRole gates administrative operations
type AppRole string

const (
	RoleAdmin AppRole = "admin"
	RoleUser  AppRole = "user"
)

// UserRole assigns a role to a user
type UserRole struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Role      AppRole   `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
