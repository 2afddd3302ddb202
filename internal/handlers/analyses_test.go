package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/brainindex/brainindex-api/internal/models"
	"github.com/brainindex/brainindex-api/internal/request"
	"github.com/brainindex/brainindex-api/internal/services/analysis"
)

type fakeAnalysisRepo struct {
	byID    map[uuid.UUID]*models.Analysis
	deleted []uuid.UUID
}

func newFakeAnalysisRepo() *fakeAnalysisRepo {
	return &fakeAnalysisRepo{byID: make(map[uuid.UUID]*models.Analysis)}
}

func (f *fakeAnalysisRepo) Create(ctx context.Context, a *models.Analysis) error {
	f.byID[a.ID] = a
	return nil
}

func (f *fakeAnalysisRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Analysis, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return a, nil
}

func (f *fakeAnalysisRepo) GetByUserIDPaginated(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*models.Analysis, int, error) {
	var out []*models.Analysis
	for _, a := range f.byID {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, len(out), nil
}

func (f *fakeAnalysisRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func authedRequest(method, target string, body string, profile *models.Profile) *http.Request {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	if profile != nil {
		r = r.WithContext(request.WithProfile(r.Context(), profile))
	}
	return r
}

func TestAnalyze_RejectsInvalidInput(t *testing.T) {
	t.Parallel()

	h := NewAnalysisHandler(nil, newFakeAnalysisRepo())

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"invalid json", "{not json", http.StatusBadRequest},
		{"empty brand name", `{"brand_name": ""}`, http.StatusBadRequest},
		{"whitespace brand name", `{"brand_name": "   "}`, http.StatusBadRequest},
		{"too long brand name", `{"brand_name": "` + strings.Repeat("a", 300) + `"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := authedRequest("POST", "/api/v1/analyze", tt.body, nil)
			w := httptest.NewRecorder()

			h.Analyze(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestRespondAnalyzeError_StatusMapping(t *testing.T) {
	t.Parallel()

	h := NewAnalysisHandler(nil, newFakeAnalysisRepo())

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantInBody string
	}{
		{"rate limited", analysis.ErrRateLimited, http.StatusTooManyRequests, ""},
		{"submission rejected", &analysis.SubmissionError{StatusCode: 400, Message: "bad input"}, http.StatusBadGateway, ""},
		{"poll timeout", &analysis.PollTimeoutError{JobID: "job-1", Attempts: 30}, http.StatusGatewayTimeout, ""},
		{"job failed", &analysis.JobFailedError{JobID: "job-1", Reason: "brand not indexable upstream"}, http.StatusBadGateway, "brand not indexable upstream"},
		{"job failed without reason", &analysis.JobFailedError{JobID: "job-2"}, http.StatusBadGateway, "failed to analyze this brand"},
		{"unknown error", context.DeadlineExceeded, http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			h.respondAnalyzeError(w, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if tt.wantInBody != "" && !strings.Contains(w.Body.String(), tt.wantInBody) {
				t.Errorf("Expected body to contain %q, got %q", tt.wantInBody, w.Body.String())
			}
		})
	}
}

func TestRespondAnalyzeError_RateLimitSetsRetryAfter(t *testing.T) {
	t.Parallel()

	h := NewAnalysisHandler(nil, newFakeAnalysisRepo())
	w := httptest.NewRecorder()

	h.respondAnalyzeError(w, analysis.ErrRateLimited)

	if got := w.Header().Get("Retry-After"); got != "3600" {
		t.Errorf("Expected Retry-After '3600', got '%s'", got)
	}
}

func TestGetAnalysis_OwnershipIsNotProbeable(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	other := uuid.New()
	analysisID := uuid.New()

	repo := newFakeAnalysisRepo()
	repo.byID[analysisID] = &models.Analysis{ID: analysisID, UserID: owner, BrandName: "Acme"}

	h := NewAnalysisHandler(nil, repo)

	tests := []struct {
		name       string
		profile    *models.Profile
		id         string
		wantStatus int
	}{
		{"owner can read", &models.Profile{ID: owner}, analysisID.String(), http.StatusOK},
		{"other user gets 404", &models.Profile{ID: other}, analysisID.String(), http.StatusNotFound},
		{"unknown id gets 404", &models.Profile{ID: owner}, uuid.New().String(), http.StatusNotFound},
		{"invalid id gets 400", &models.Profile{ID: owner}, "not-a-uuid", http.StatusBadRequest},
		{"anonymous gets 401", nil, analysisID.String(), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := authedRequest("GET", "/api/v1/analyses/"+tt.id, "", tt.profile)
			req = mux.SetURLVars(req, map[string]string{"id": tt.id})
			w := httptest.NewRecorder()

			h.GetAnalysis(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestDeleteAnalysis_RemovesOwnedRecord(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	analysisID := uuid.New()

	repo := newFakeAnalysisRepo()
	repo.byID[analysisID] = &models.Analysis{ID: analysisID, UserID: owner}

	h := NewAnalysisHandler(nil, repo)

	req := authedRequest("DELETE", "/api/v1/analyses/"+analysisID.String(), "", &models.Profile{ID: owner})
	req = mux.SetURLVars(req, map[string]string{"id": analysisID.String()})
	w := httptest.NewRecorder()

	h.DeleteAnalysis(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != analysisID {
		t.Errorf("Expected analysis %s to be deleted, got %v", analysisID, repo.deleted)
	}
}

func TestParsePagination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		query        string
		wantPage     int
		wantPageSize int
	}{
		{"defaults", "", 1, DefaultPageSize},
		{"explicit values", "?page=3&page_size=25", 3, 25},
		{"page size capped", "?page_size=9999", 1, MaxPageSize},
		{"invalid values ignored", "?page=zero&page_size=-5", 1, DefaultPageSize},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest("GET", "/api/v1/analyses"+tt.query, nil)
			page, pageSize := parsePagination(r)

			if page != tt.wantPage {
				t.Errorf("Expected page %d, got %d", tt.wantPage, page)
			}
			if pageSize != tt.wantPageSize {
				t.Errorf("Expected page size %d, got %d", tt.wantPageSize, pageSize)
			}
		})
	}
}

func TestTotalPages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		total    int
		pageSize int
		want     int
	}{
		{0, 50, 1},
		{1, 50, 1},
		{50, 50, 1},
		{51, 50, 2},
		{100, 25, 4},
	}

	for _, tt := range tests {
		if got := totalPages(tt.total, tt.pageSize); got != tt.want {
			t.Errorf("totalPages(%d, %d) = %d, want %d", tt.total, tt.pageSize, got, tt.want)
		}
	}
}
