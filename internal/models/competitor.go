package models

import (
	"time"

	"github.com/google/uuid"
)

// Competitor tracks a competitor brand alongside the user's own score
type Competitor struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	CompetitorName string    `json:"competitor_name"`
	YourScore      *int      `json:"your_score,omitempty"`
	TheirScore     *int      `json:"their_score,omitempty"`
	LastUpdated    time.Time `json:"last_updated"`
	CreatedAt      time.Time `json:"created_at"`
}
