package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/brainindex/brainindex-api/internal/database"
	"github.com/brainindex/brainindex-api/internal/models"
)

// AdminHandler handles administrative requests. All routes must be
// mounted behind the admin-role middleware.
type AdminHandler struct {
	profileRepo  *database.ProfileRepository
	analysisRepo *database.AnalysisRepository
	roleRepo     *database.UserRoleRepository
	activityRepo *database.UserActivityRepository
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	profileRepo *database.ProfileRepository,
	analysisRepo *database.AnalysisRepository,
	roleRepo *database.UserRoleRepository,
	activityRepo *database.UserActivityRepository,
) *AdminHandler {
	return &AdminHandler{
		profileRepo:  profileRepo,
		analysisRepo: analysisRepo,
		roleRepo:     roleRepo,
		activityRepo: activityRepo,
	}
}

// RegisterRoutes registers admin routes on the given router.
// The router should already have the /admin prefix.
func (h *AdminHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/stats", h.GetStats).Methods("GET")
	r.HandleFunc("/users", h.ListUsers).Methods("GET")
	r.HandleFunc("/analyses", h.ListAllAnalyses).Methods("GET")
	r.HandleFunc("/activity", h.GetRecentActivity).Methods("GET")
	r.HandleFunc("/roles", h.GrantRole).Methods("POST")
	r.HandleFunc("/roles", h.RevokeRole).Methods("DELETE")
}

// AdminStatsResponse summarizes platform usage
type AdminStatsResponse struct {
	TotalUsers    int `json:"total_users"`
	TotalAnalyses int `json:"total_analyses"`
}

// GetStats returns platform-wide counts
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	users, err := h.profileRepo.CountAll(r.Context())
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to count users")
		return
	}

	analyses, err := h.analysisRepo.CountAll(r.Context())
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to count analyses")
		return
	}

	respondJSON(w, http.StatusOK, AdminStatsResponse{
		TotalUsers:    users,
		TotalAnalyses: analyses,
	})
}

// ListUsersResponse represents the paginated user listing
type ListUsersResponse struct {
	Users      []*models.Profile `json:"users"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	Total      int               `json:"total"`
	TotalPages int               `json:"total_pages"`
}

// ListUsers lists all user profiles with pagination
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	users, total, err := h.profileRepo.ListPaginated(r.Context(), page, pageSize)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve users")
		return
	}

	respondJSON(w, http.StatusOK, ListUsersResponse{
		Users:      users,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages(total, pageSize),
	})
}

// ListAllAnalyses lists analyses across all users with pagination
func (h *AdminHandler) ListAllAnalyses(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	analyses, total, err := h.analysisRepo.GetAllPaginated(r.Context(), page, pageSize)
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

// GetRecentActivity returns the most recent user API interactions
func (h *AdminHandler) GetRecentActivity(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	activity, err := h.activityRepo.GetRecent(r.Context(), limit)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve activity")
		return
	}

	respondJSON(w, http.StatusOK, activity)
}

// RoleRequest represents a role grant or revoke
type RoleRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Role   string `json:"role" validate:"required"`
}

func parseRoleRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, models.AppRole, bool) {
	var req RoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON in request body")
		return uuid.Nil, "", false
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid user ID")
		return uuid.Nil, "", false
	}

	role := models.AppRole(req.Role)
	if role != models.RoleAdmin && role != models.RoleUser {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid role")
		return uuid.Nil, "", false
	}

	return userID, role, true
}

// GrantRole grants a role to a user
func (h *AdminHandler) GrantRole(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := parseRoleRequest(w, r)
	if !ok {
		return
	}

	if err := h.roleRepo.Grant(r.Context(), userID, role); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to grant role")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"user_id": userID.String(), "role": string(role), "status": "granted"})
}

// RevokeRole revokes a role from a user
func (h *AdminHandler) RevokeRole(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := parseRoleRequest(w, r)
	if !ok {
		return
	}

	if err := h.roleRepo.Revoke(r.Context(), userID, role); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to revoke role")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"user_id": userID.String(), "role": string(role), "status": "revoked"})
}
