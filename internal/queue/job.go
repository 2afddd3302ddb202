package queue

import (
	"time"

	"github.com/google/uuid"
)

// JobType represents the type of job
type JobType string

const (
	// JobTypeAnalysisComplete is a job for sending an analysis completion email
	JobTypeAnalysisComplete JobType = "analysis_complete"
	// JobTypeWeeklySummary is a job for sending a weekly visibility summary email
	JobTypeWeeklySummary JobType = "weekly_summary"
)

// Job represents an email notification job in the queue
type Job struct {
	ID         uuid.UUID      `json:"id"`
	Type       JobType        `json:"type"`
	UserID     uuid.UUID      `json:"user_id"`
	AnalysisID *uuid.UUID     `json:"analysis_id,omitempty"` // Optional, for analysis completion jobs
	BrandName  string         `json:"brand_name,omitempty"`
	NotBefore  *time.Time     `json:"not_before,omitempty"` // Earliest time to process job (nil = immediate)
	NotAfter   *time.Time     `json:"not_after,omitempty"`  // Latest time to process job (nil = no expiration)
	Metadata   map[string]any `json:"metadata,omitempty"`   // Job-specific data
	CreatedAt  time.Time      `json:"created_at"`
	RetryCount int            `json:"retry_count"`
	MaxRetries int            `json:"max_retries"`
}

// NewAnalysisCompleteJob creates a job that notifies a user their analysis finished
func NewAnalysisCompleteJob(userID, analysisID uuid.UUID, brandName string) *Job {
	return &Job{
		ID:         uuid.New(),
		Type:       JobTypeAnalysisComplete,
		UserID:     userID,
		AnalysisID: &analysisID,
		BrandName:  brandName,
		Metadata:   make(map[string]any),
		CreatedAt:  time.Now(),
		RetryCount: 0,
		MaxRetries: 3,
	}
}

// NewWeeklySummaryJob creates a job that sends a user their weekly summary email
func NewWeeklySummaryJob(userID uuid.UUID) *Job {
	return &Job{
		ID:         uuid.New(),
		Type:       JobTypeWeeklySummary,
		UserID:     userID,
		Metadata:   make(map[string]any),
		CreatedAt:  time.Now(),
		RetryCount: 0,
		MaxRetries: 3,
	}
}

// ShouldProcess checks if the job should be processed now
func (j *Job) ShouldProcess() bool {
	now := time.Now()

	if j.NotBefore != nil && now.Before(*j.NotBefore) {
		return false
	}

	if j.NotAfter != nil && now.After(*j.NotAfter) {
		return false
	}

	return true
}

// IsExpired checks if the job has expired
func (j *Job) IsExpired() bool {
	if j.NotAfter == nil {
		return false
	}

	return time.Now().After(*j.NotAfter)
}

// CanRetry checks if the job can be retried
func (j *Job) CanRetry() bool {
	return j.RetryCount < j.MaxRetries
}

// IncrementRetry increments the retry count
func (j *Job) IncrementRetry() {
	j.RetryCount++
}
