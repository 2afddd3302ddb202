package models

import (
	"time"

	"github.com/google/uuid"
)

// EmailPreference holds a user's email notification opt-in flags.
// Rows are created lazily; when absent, analysis-complete notices default to on.
type EmailPreference struct {
	ID                uuid.UUID `json:"id"`
	UserID            uuid.UUID `json:"user_id"`
	AnalysisComplete  bool      `json:"analysis_complete"`
	WeeklySummary     bool      `json:"weekly_summary"`
	CompetitorUpdates bool      `json:"competitor_updates"`
	MarketingEmails   bool      `json:"marketing_emails"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// DefaultEmailPreference returns the defaults applied when a user has no row yet.
func DefaultEmailPreference(userID uuid.UUID) *EmailPreference {
	return &EmailPreference{
		UserID:            userID,
		AnalysisComplete:  true,
		WeeklySummary:     true,
		CompetitorUpdates: true,
		MarketingEmails:   false,
	}
}
