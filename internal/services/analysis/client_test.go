package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/brainindex/brainindex-api/internal/models"
)

func TestClient_SubmitJob(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		handler   http.HandlerFunc
		wantJobID string
		wantErr   bool
		checkErr  func(*testing.T, error)
	}{
		{
			name: "successful submission",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				if r.URL.Path != "/analyze/jobs" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				var req submitRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Errorf("failed to decode request: %v", err)
				}
				if req.Input != "Acme Corp" {
					t.Errorf("expected input 'Acme Corp', got %q", req.Input)
				}
				if req.Tier != "standard" {
					t.Errorf("expected tier 'standard', got %q", req.Tier)
				}
				w.WriteHeader(http.StatusAccepted)
				_ = json.NewEncoder(w).Encode(submitResponse{JobID: "job-123"})
			},
			wantJobID: "job-123",
		},
		{
			name: "engine rejects submission",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "engine overloaded"})
			},
			wantErr: true,
			checkErr: func(t *testing.T, err error) {
				if !IsSubmissionError(err) {
					t.Errorf("expected SubmissionError, got %T", err)
				}
			},
		},
		{
			name: "empty job id",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				_ = json.NewEncoder(w).Encode(submitResponse{})
			},
			wantErr: true,
			checkErr: func(t *testing.T, err error) {
				if !IsSubmissionError(err) {
					t.Errorf("expected SubmissionError, got %T", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			client := NewClient(srv.URL, "", "standard", zap.NewNop())
			jobID, err := client.SubmitJob(context.Background(), "Acme Corp")

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.checkErr != nil {
					tt.checkErr(t, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("SubmitJob: %v", err)
			}
			if jobID != tt.wantJobID {
				t.Errorf("expected job ID %q, got %q", tt.wantJobID, jobID)
			}
		})
	}
}

func TestClient_SubmitJob_SendsAPIKey(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret-key" {
			t.Errorf("expected bearer auth header, got %q", got)
		}
		_ = json.NewEncoder(w).Encode(submitResponse{JobID: "job-1"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret-key", "", zap.NewNop())
	if _, err := client.SubmitJob(context.Background(), "Acme"); err != nil {
		t.Fatalf("SubmitJob: %v", err)
	}
}

func TestClient_GetJob(t *testing.T) {
	t.Parallel()

	score := 72
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/analyze/jobs/job-123" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(JobState{
			JobID:  "job-123",
			Status: JobStatusCompleted,
			Result: &models.AnalysisResult{BrandName: "Acme", OverallScore: &score},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", "", zap.NewNop())
	state, err := client.GetJob(context.Background(), "job-123")
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if state.Status != JobStatusCompleted {
		t.Errorf("expected completed, got %s", state.Status)
	}
	if state.Result == nil || state.Result.BrandName != "Acme" {
		t.Errorf("unexpected result: %+v", state.Result)
	}
}

func TestClient_GetJob_ServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", "", zap.NewNop())
	if _, err := client.GetJob(context.Background(), "job-404"); err == nil {
		t.Error("expected error for 500 response")
	}
}

func TestJobStatus_Terminal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status JobStatus
		want   bool
	}{
		{JobStatusPending, false},
		{JobStatusProcessing, false},
		{JobStatusCompleted, true},
		{JobStatusFailed, true},
	}

	for _, tt := range tests {
		if got := tt.status.Terminal(); got != tt.want {
			t.Errorf("Terminal(%s) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
