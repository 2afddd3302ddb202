package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile represents a user profile in the system
type Profile struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	ProviderID *string   `json:"provider_id,omitempty"`
	FullName   *string   `json:"full_name,omitempty"`
	Company    *string   `json:"company,omitempty"`
	AvatarURL  *string   `json:"avatar_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
