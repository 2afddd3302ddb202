package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/brainindex/brainindex-api/internal/models"
)

type fakePrefRepo struct {
	byUser   map[uuid.UUID]*models.EmailPreference
	upserted *models.EmailPreference
}

func newFakePrefRepo() *fakePrefRepo {
	return &fakePrefRepo{byUser: make(map[uuid.UUID]*models.EmailPreference)}
}

func (f *fakePrefRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.EmailPreference, error) {
	pref, ok := f.byUser[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return pref, nil
}

func (f *fakePrefRepo) Upsert(ctx context.Context, pref *models.EmailPreference) error {
	f.byUser[pref.UserID] = pref
	f.upserted = pref
	return nil
}

func TestGetPreferences_DefaultsWhenMissing(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	h := NewEmailPreferenceHandler(newFakePrefRepo())

	req := authedRequest("GET", "/api/v1/email-preferences", "", &models.Profile{ID: userID})
	w := httptest.NewRecorder()

	h.GetPreferences(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var body struct {
		Data models.EmailPreference `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if !body.Data.AnalysisComplete {
		t.Error("Expected analysis_complete to default to true")
	}
	if body.Data.MarketingEmails {
		t.Error("Expected marketing_emails to default to false")
	}
}

func TestUpdatePreferences_PartialUpdate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	repo := newFakePrefRepo()
	h := NewEmailPreferenceHandler(repo)

	req := authedRequest("PUT", "/api/v1/email-preferences", `{"analysis_complete": false}`, &models.Profile{ID: userID})
	w := httptest.NewRecorder()

	h.UpdatePreferences(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if repo.upserted == nil {
		t.Fatal("Expected an upsert to be performed")
	}
	if repo.upserted.AnalysisComplete {
		t.Error("Expected analysis_complete to be false after update")
	}
	// Untouched fields keep their defaults
	if !repo.upserted.WeeklySummary {
		t.Error("Expected weekly_summary to remain true")
	}
}

func TestUpdatePreferences_RequiresAuth(t *testing.T) {
	t.Parallel()

	h := NewEmailPreferenceHandler(newFakePrefRepo())

	req := authedRequest("PUT", "/api/v1/email-preferences", `{"weekly_summary": false}`, nil)
	w := httptest.NewRecorder()

	h.UpdatePreferences(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
}
