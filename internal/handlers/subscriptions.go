package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/brainindex/brainindex-api/internal/database"
	"github.com/brainindex/brainindex-api/internal/models"
	"github.com/brainindex/brainindex-api/internal/request"
	"github.com/brainindex/brainindex-api/internal/validation"
)

// SubscriptionHandler handles billing subscription requests
type SubscriptionHandler struct {
	subscriptionRepo *database.SubscriptionRepository
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(subscriptionRepo *database.SubscriptionRepository) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionRepo: subscriptionRepo}
}

// RegisterRoutes registers subscription routes on the given router.
// The router should already have the /subscription prefix.
func (h *SubscriptionHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.GetSubscription).Methods("GET")
	r.HandleFunc("", h.UpdateSubscription).Methods("PUT")
}

// UpdateSubscriptionRequest represents a subscription change
type UpdateSubscriptionRequest struct {
	Plan string `json:"plan" validate:"required,subscription_plan"`
}

// GetSubscription returns the authenticated user's subscription,
// defaulting to the free plan when no row exists
func (h *SubscriptionHandler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	profile := request.ProfileFromContext(r)
	if profile == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	sub, err := h.subscriptionRepo.GetByUserID(r.Context(), profile.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondJSON(w, http.StatusOK, &models.Subscription{
				UserID: profile.ID,
				Plan:   models.PlanFree,
				Status: models.SubscriptionActive,
			})
			return
		}
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve subscription")
		return
	}

	respondJSON(w, http.StatusOK, sub)
}

// UpdateSubscription changes the authenticated user's plan
func (h *SubscriptionHandler) UpdateSubscription(w http.ResponseWriter, r *http.Request) {
	profile := request.ProfileFromContext(r)
	if profile == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req UpdateSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON in request body")
		return
	}

	if err := validation.ValidateSubscriptionPlan(req.Plan); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	sub, err := h.subscriptionRepo.GetByUserID(r.Context(), profile.ID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve subscription")
			return
		}
		sub = &models.Subscription{
			ID:     uuid.New(),
			UserID: profile.ID,
			Status: models.SubscriptionActive,
		}
	}
	sub.Plan = models.SubscriptionPlan(req.Plan)

	if err := h.subscriptionRepo.Upsert(r.Context(), sub); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update subscription")
		return
	}

	respondJSON(w, http.StatusOK, sub)
}
