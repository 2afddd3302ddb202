package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/brainindex/brainindex-api/internal/database"
	"github.com/brainindex/brainindex-api/internal/models"
	"github.com/brainindex/brainindex-api/internal/request"
	"github.com/brainindex/brainindex-api/internal/validation"
)

// CompetitorHandler handles competitor tracking requests
type CompetitorHandler struct {
	competitorRepo *database.CompetitorRepository
}

// NewCompetitorHandler creates a new competitor handler
func NewCompetitorHandler(competitorRepo *database.CompetitorRepository) *CompetitorHandler {
	return &CompetitorHandler{competitorRepo: competitorRepo}
}

// RegisterRoutes registers competitor routes on the given router.
// The router should already have the /competitors prefix.
func (h *CompetitorHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListCompetitors).Methods("GET")
	r.HandleFunc("", h.CreateCompetitor).Methods("POST")
	r.HandleFunc("/{id}/scores", h.UpdateScores).Methods("PATCH")
	r.HandleFunc("/{id}", h.DeleteCompetitor).Methods("DELETE")
}

// CreateCompetitorRequest represents a create competitor request
type CreateCompetitorRequest struct {
	CompetitorName string `json:"competitor_name" validate:"required,min=1,max=200"`
}

// UpdateScoresRequest represents a competitor score update
type UpdateScoresRequest struct {
	YourScore  *int `json:"your_score,omitempty"`
	TheirScore *int `json:"their_score,omitempty"`
}

// ListCompetitors lists the authenticated user's tracked competitors
func (h *CompetitorHandler) ListCompetitors(w http.ResponseWriter, r *http.Request) {
	profile := request.ProfileFromContext(r)
	if profile == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	competitors, err := h.competitorRepo.GetByUserID(r.Context(), profile.ID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve competitors")
		return
	}

	respondJSON(w, http.StatusOK, competitors)
}

// CreateCompetitor adds a competitor to the authenticated user's watch list
func (h *CompetitorHandler) CreateCompetitor(w http.ResponseWriter, r *http.Request) {
	profile := request.ProfileFromContext(r)
	if profile == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req CreateCompetitorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON in request body")
		return
	}

	name := validation.SanitizeText(req.CompetitorName)
	if err := validation.ValidateBrandName(name); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	now := time.Now().UTC()
	competitor := &models.Competitor{
		ID:             uuid.New(),
		UserID:         profile.ID,
		CompetitorName: name,
		LastUpdated:    now,
		CreatedAt:      now,
	}

	if err := h.competitorRepo.Create(r.Context(), competitor); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create competitor")
		return
	}

	respondJSON(w, http.StatusCreated, competitor)
}

// UpdateScores updates the stored score pair for a tracked competitor
func (h *CompetitorHandler) UpdateScores(w http.ResponseWriter, r *http.Request) {
	profile := request.ProfileFromContext(r)
	if profile == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid competitor ID")
		return
	}

	var req UpdateScoresRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON in request body")
		return
	}

	competitor, err := h.getOwned(w, r, id, profile.ID)
	if competitor == nil {
		return
	}

	if err = h.competitorRepo.UpdateScores(r.Context(), id, req.YourScore, req.TheirScore); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update scores")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"id": id.String(), "status": "updated"})
}

// DeleteCompetitor removes a competitor from the watch list
func (h *CompetitorHandler) DeleteCompetitor(w http.ResponseWriter, r *http.Request) {
	profile := request.ProfileFromContext(r)
	if profile == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid competitor ID")
		return
	}

	competitor, _ := h.getOwned(w, r, id, profile.ID)
	if competitor == nil {
		return
	}

	if err := h.competitorRepo.Delete(r.Context(), id); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to delete competitor")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"id": id.String(), "status": "deleted"})
}

// getOwned fetches a competitor and enforces ownership, writing the error
// response itself. Returns nil when the caller should stop.
func (h *CompetitorHandler) getOwned(w http.ResponseWriter, r *http.Request, id, userID uuid.UUID) (*models.Competitor, error) {
	competitor, err := h.competitorRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Competitor not found")
			return nil, err
		}
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve competitor")
		return nil, err
	}
	if competitor.UserID != userID {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Competitor not found")
		return nil, sql.ErrNoRows
	}
	return competitor, nil
}
