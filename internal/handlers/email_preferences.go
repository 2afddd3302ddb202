package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/brainindex/brainindex-api/internal/database"
	"github.com/brainindex/brainindex-api/internal/models"
	"github.com/brainindex/brainindex-api/internal/request"
)

// EmailPreferenceHandler handles email notification preference requests
type EmailPreferenceHandler struct {
	prefRepo database.EmailPreferenceRepositoryInterface
}

// NewEmailPreferenceHandler creates a new email preference handler
func NewEmailPreferenceHandler(prefRepo database.EmailPreferenceRepositoryInterface) *EmailPreferenceHandler {
	return &EmailPreferenceHandler{prefRepo: prefRepo}
}

// RegisterRoutes registers email preference routes on the given router.
// The router should already have the /email-preferences prefix.
func (h *EmailPreferenceHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.GetPreferences).Methods("GET")
	r.HandleFunc("", h.UpdatePreferences).Methods("PUT")
}

// UpdateEmailPreferencesRequest represents a preference update. Omitted
// fields keep their current value.
type UpdateEmailPreferencesRequest struct {
	AnalysisComplete  *bool `json:"analysis_complete,omitempty"`
	WeeklySummary     *bool `json:"weekly_summary,omitempty"`
	CompetitorUpdates *bool `json:"competitor_updates,omitempty"`
	MarketingEmails   *bool `json:"marketing_emails,omitempty"`
}

// GetPreferences returns the authenticated user's email preferences,
// falling back to defaults when no row exists yet
func (h *EmailPreferenceHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	profile := request.ProfileFromContext(r)
	if profile == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	pref, err := h.prefRepo.GetByUserID(r.Context(), profile.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondJSON(w, http.StatusOK, models.DefaultEmailPreference(profile.ID))
			return
		}
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve email preferences")
		return
	}

	respondJSON(w, http.StatusOK, pref)
}

// UpdatePreferences upserts the authenticated user's email preferences
func (h *EmailPreferenceHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	profile := request.ProfileFromContext(r)
	if profile == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req UpdateEmailPreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON in request body")
		return
	}

	pref, err := h.prefRepo.GetByUserID(r.Context(), profile.ID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve email preferences")
			return
		}
		pref = models.DefaultEmailPreference(profile.ID)
	}

	if req.AnalysisComplete != nil {
		pref.AnalysisComplete = *req.AnalysisComplete
	}
	if req.WeeklySummary != nil {
		pref.WeeklySummary = *req.WeeklySummary
	}
	if req.CompetitorUpdates != nil {
		pref.CompetitorUpdates = *req.CompetitorUpdates
	}
	if req.MarketingEmails != nil {
		pref.MarketingEmails = *req.MarketingEmails
	}

	if err := h.prefRepo.Upsert(r.Context(), pref); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update email preferences")
		return
	}

	respondJSON(w, http.StatusOK, pref)
}
