package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AnalysisStatus represents the lifecycle state of a stored analysis
type AnalysisStatus string

const (
	AnalysisStatusCompleted AnalysisStatus = "completed"
	AnalysisStatusFailed    AnalysisStatus = "failed"
)

// AISystemScore holds the visibility score reported for a single AI system
type AISystemScore struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Finding is a single observation from the brand-analysis engine
type Finding struct {
	Title    string `json:"title"`
	Detail   string `json:"detail,omitempty"`
	Severity string `json:"severity,omitempty"`
}

// Recommendation is a suggested action to improve AI visibility
type Recommendation struct {
	Title    string `json:"title"`
	Detail   string `json:"detail,omitempty"`
	Priority string `json:"priority,omitempty"`
}

// AnalysisResult is the payload the remote engine produces for a brand.
// The application stores and displays it; it never computes scores itself.
type AnalysisResult struct {
	BrandName       string           `json:"brand_name"`
	OverallScore    *int             `json:"overall_score,omitempty"`
	AISystems       []AISystemScore  `json:"ai_systems"`
	Findings        []Finding        `json:"findings"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Analysis is a persisted analysis record owned by the requesting user.
// Immutable after creation except for administrative deletion.
type Analysis struct {
	ID              uuid.UUID        `json:"id"`
	UserID          uuid.UUID        `json:"user_id"`
	BrandName       string           `json:"brand_name"`
	OverallScore    *int             `json:"overall_score,omitempty"`
	AISystems       []AISystemScore  `json:"ai_systems"`
	Findings        []Finding        `json:"findings"`
	Recommendations []Recommendation `json:"recommendations"`
	Status          AnalysisStatus   `json:"status"`
	CreatedAt       time.Time        `json:"created_at"`
}

// BrandKey normalizes a brand name for cache lookups: trimmed and lowercased.
func BrandKey(brandName string) string {
	return strings.ToLower(strings.TrimSpace(brandName))
}
