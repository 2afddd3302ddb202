package analysis

import (
	"github.com/brainindex/brainindex-api/internal/models"
)

// JobStatus is the lifecycle state reported by the brand-analysis engine
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether the status is a final state
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// submitRequest is the engine's job submission payload
type submitRequest struct {
	Input string `json:"input"`
	Tier  string `json:"tier"`
}

// submitResponse is the engine's acknowledgement of an accepted job
type submitResponse struct {
	JobID string `json:"job_id"`
}

// JobState is the engine's view of a submitted job
type JobState struct {
	JobID  string                 `json:"job_id"`
	Status JobStatus              `json:"status"`
	Result *models.AnalysisResult `json:"result,omitempty"`
	Error  string                 `json:"error,omitempty"`
}
