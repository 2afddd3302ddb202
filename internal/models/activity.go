package models

import (
	"time"

	"github.com/google/uuid"
)

// UserActivity records a user's most recent API interaction, surfaced on the
// admin recent-activity page.
type UserActivity struct {
	UserID          uuid.UUID `json:"user_id"`
	LastInteraction time.Time `json:"last_interaction"`
	UpdatedAt       time.Time `json:"updated_at"`
}
