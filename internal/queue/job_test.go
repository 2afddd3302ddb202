package queue

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestNewAnalysisCompleteJob(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	analysisID := uuid.New()

	job := NewAnalysisCompleteJob(userID, analysisID, "Acme Corp")

	if job.ID == uuid.Nil {
		t.Error("Expected job ID to be set")
	}
	if job.Type != JobTypeAnalysisComplete {
		t.Errorf("Expected job type to be %s, got %s", JobTypeAnalysisComplete, job.Type)
	}
	if job.UserID != userID {
		t.Errorf("Expected user ID to be %s, got %s", userID, job.UserID)
	}
	if job.AnalysisID == nil || *job.AnalysisID != analysisID {
		t.Errorf("Expected analysis ID to be %s, got %v", analysisID, job.AnalysisID)
	}
	if job.BrandName != "Acme Corp" {
		t.Errorf("Expected brand name to be Acme Corp, got %s", job.BrandName)
	}
	if job.Metadata == nil {
		t.Error("Expected metadata to be initialized")
	}
	if job.RetryCount != 0 {
		t.Errorf("Expected retry count to be 0, got %d", job.RetryCount)
	}
	if job.MaxRetries != 3 {
		t.Errorf("Expected max retries to be 3, got %d", job.MaxRetries)
	}
}

func TestNewWeeklySummaryJob(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	job := NewWeeklySummaryJob(userID)

	if job.Type != JobTypeWeeklySummary {
		t.Errorf("Expected job type to be %s, got %s", JobTypeWeeklySummary, job.Type)
	}
	if job.UserID != userID {
		t.Errorf("Expected user ID to be %s, got %s", userID, job.UserID)
	}
	if job.AnalysisID != nil {
		t.Errorf("Expected analysis ID to be nil, got %v", job.AnalysisID)
	}
}

func TestJob_ShouldProcess(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	now := time.Now()

	tests := []struct {
		name string
		job  *Job
		want bool
	}{
		{
			name: "no time constraints",
			job: &Job{
				ID:     uuid.New(),
				Type:   JobTypeAnalysisComplete,
				UserID: userID,
			},
			want: true,
		},
		{
			name: "not before in past",
			job: &Job{
				ID:        uuid.New(),
				Type:      JobTypeAnalysisComplete,
				UserID:    userID,
				NotBefore: timePtr(now.Add(-1 * time.Hour)),
			},
			want: true,
		},
		{
			name: "not before in future",
			job: &Job{
				ID:        uuid.New(),
				Type:      JobTypeWeeklySummary,
				UserID:    userID,
				NotBefore: timePtr(now.Add(1 * time.Hour)),
			},
			want: false,
		},
		{
			name: "not after in past",
			job: &Job{
				ID:       uuid.New(),
				Type:     JobTypeAnalysisComplete,
				UserID:   userID,
				NotAfter: timePtr(now.Add(-1 * time.Hour)),
			},
			want: false,
		},
		{
			name: "not after in future",
			job: &Job{
				ID:       uuid.New(),
				Type:     JobTypeAnalysisComplete,
				UserID:   userID,
				NotAfter: timePtr(now.Add(1 * time.Hour)),
			},
			want: true,
		},
		{
			name: "within time window",
			job: &Job{
				ID:        uuid.New(),
				Type:      JobTypeWeeklySummary,
				UserID:    userID,
				NotBefore: timePtr(now.Add(-1 * time.Hour)),
				NotAfter:  timePtr(now.Add(1 * time.Hour)),
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.job.ShouldProcess(); got != tt.want {
				t.Errorf("ShouldProcess() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJob_IsExpired(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name string
		job  *Job
		want bool
	}{
		{
			name: "no expiration",
			job:  &Job{ID: uuid.New(), Type: JobTypeAnalysisComplete},
			want: false,
		},
		{
			name: "expired",
			job:  &Job{ID: uuid.New(), Type: JobTypeAnalysisComplete, NotAfter: timePtr(now.Add(-1 * time.Minute))},
			want: true,
		},
		{
			name: "not yet expired",
			job:  &Job{ID: uuid.New(), Type: JobTypeWeeklySummary, NotAfter: timePtr(now.Add(1 * time.Minute))},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.job.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJob_Retry(t *testing.T) {
	t.Parallel()

	job := NewWeeklySummaryJob(uuid.New())

	for i := 0; i < 3; i++ {
		if !job.CanRetry() {
			t.Fatalf("expected CanRetry at attempt %d", i)
		}
		job.IncrementRetry()
	}
	if job.CanRetry() {
		t.Error("expected CanRetry to be false after max retries")
	}
	if job.RetryCount != 3 {
		t.Errorf("Expected retry count to be 3, got %d", job.RetryCount)
	}
}
