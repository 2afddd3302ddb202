package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/brainindex/brainindex-api/internal/database"
	"github.com/brainindex/brainindex-api/internal/models"
	"github.com/brainindex/brainindex-api/internal/request"
	"github.com/brainindex/brainindex-api/internal/services/analysis"
	"github.com/brainindex/brainindex-api/internal/validation"
)

const (
	// DefaultPageSize is the default page size for pagination
	DefaultPageSize = 50
	// MaxPageSize is the maximum page size for pagination
	MaxPageSize = 200
)

// AnalysisHandler handles brand analysis requests
type AnalysisHandler struct {
	workflow     *analysis.Workflow
	analysisRepo database.AnalysisRepositoryInterface
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(workflow *analysis.Workflow, analysisRepo database.AnalysisRepositoryInterface) *AnalysisHandler {
	return &AnalysisHandler{workflow: workflow, analysisRepo: analysisRepo}
}

// RegisterRoutes registers analysis routes on the given router.
// The router should already have the /analyses prefix.
func (h *AnalysisHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListAnalyses).Methods("GET")
	r.HandleFunc("/{id}", h.GetAnalysis).Methods("GET")
	r.HandleFunc("/{id}", h.DeleteAnalysis).Methods("DELETE")
}

// AnalyzeRequest represents an analyze request
type AnalyzeRequest struct {
	BrandName string `json:"brand_name" validate:"required,min=1,max=200"`
}

// Analyze runs the full brand analysis workflow and returns the result.
// Anonymous callers are served from cache or a fresh engine run; only
// authenticated callers get persistence and notifications.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON in request body")
		return
	}

	brandName := validation.SanitizeText(req.BrandName)
	if err := validation.ValidateBrandName(brandName); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	var userID *uuid.UUID
	if profile := request.ProfileFromContext(r); profile != nil {
		userID = &profile.ID
	}

	outcome, err := h.workflow.Analyze(r.Context(), brandName, userID)
	if err != nil {
		h.respondAnalyzeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, outcome)
}

// respondAnalyzeError maps workflow failures to HTTP status codes
func (h *AnalysisHandler) respondAnalyzeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, analysis.ErrRateLimited):
		w.Header().Set("Retry-After", strconv.Itoa(int(analysis.RateLimitWindow.Seconds())))
		respondJSONError(w, http.StatusTooManyRequests, "Too Many Requests", "Analysis quota exceeded, try again later")
	case analysis.IsSubmissionError(err):
		respondJSONError(w, http.StatusBadGateway, "Bad Gateway", "The analysis engine rejected the request")
	case analysis.IsPollTimeout(err):
		respondJSONError(w, http.StatusGatewayTimeout, "Gateway Timeout", "The analysis did not complete in time")
	case analysis.IsJobFailed(err):
		// The engine's failure reason is the only clue the caller gets,
		// so pass it through.
		message := "The analysis engine failed to analyze this brand"
		var je *analysis.JobFailedError
		if errors.As(err, &je) && je.Reason != "" {
			message = message + ": " + sanitizeErrorMessage(je.Reason)
		}
		respondJSONError(w, http.StatusBadGateway, "Bad Gateway", message)
	default:
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to run analysis")
	}
}

// ListAnalysesResponse represents the paginated response for listing analyses
type ListAnalysesResponse struct {
	Analyses   []*models.Analysis `json:"analyses"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	Total      int                `json:"total"`
	TotalPages int                `json:"total_pages"`
}

// ListAnalyses lists analyses for the authenticated user with pagination
func (h *AnalysisHandler) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	profile := request.ProfileFromContext(r)
	if profile == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	page, pageSize := parsePagination(r)

	analyses, total, err := h.analysisRepo.GetByUserIDPaginated(r.Context(), profile.ID, page, pageSize)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve analyses")
		return
	}

	respondJSON(w, http.StatusOK, ListAnalysesResponse{
		Analyses:   analyses,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages(total, pageSize),
	})
}

// GetAnalysis returns a single analysis owned by the authenticated user
func (h *AnalysisHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	profile := request.ProfileFromContext(r)
	if profile == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid analysis ID")
		return
	}

	a, err := h.analysisRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Analysis not found")
			return
		}
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve analysis")
		return
	}

	// Ownership is enforced as a 404, not a 403, so IDs are not probeable
	if a.UserID != profile.ID {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Analysis not found")
		return
	}

	respondJSON(w, http.StatusOK, a)
}

// DeleteAnalysis deletes an analysis owned by the authenticated user
func (h *AnalysisHandler) DeleteAnalysis(w http.ResponseWriter, r *http.Request) {
	profile := request.ProfileFromContext(r)
	if profile == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid analysis ID")
		return
	}

	a, err := h.analysisRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Analysis not found")
			return
		}
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve analysis")
		return
	}
	if a.UserID != profile.ID {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Analysis not found")
		return
	}

	if err := h.analysisRepo.Delete(r.Context(), id); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to delete analysis")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"id": id.String(), "status": "deleted"})
}

// parsePagination extracts page and page_size query parameters
func parsePagination(r *http.Request) (page, pageSize int) {
	page = 1
	if p := r.URL.Query().Get("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}

	pageSize = DefaultPageSize
	if ps := r.URL.Query().Get("page_size"); ps != "" {
		if parsed, err := strconv.Atoi(ps); err == nil && parsed > 0 {
			pageSize = parsed
			if pageSize > MaxPageSize {
				pageSize = MaxPageSize
			}
		}
	}

	return page, pageSize
}

// totalPages computes the page count for a result set
func totalPages(total, pageSize int) int {
	pages := (total + pageSize - 1) / pageSize
	if pages == 0 {
		pages = 1
	}
	return pages
}
