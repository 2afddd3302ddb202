package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRespondJSON(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	respondJSON(w, http.StatusCreated, map[string]string{"message": "hello"})

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", resp.StatusCode)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected Content-Type 'application/json', got '%s'", ct)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if success, ok := body["success"].(bool); !ok || !success {
		t.Error("Expected success to be true")
	}

	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatal("Expected data object in response")
	}
	if data["message"] != "hello" {
		t.Errorf("Expected message 'hello', got '%v'", data["message"])
	}

	ts, ok := body["timestamp"].(string)
	if !ok {
		t.Fatal("Expected timestamp in response")
	}
	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		t.Errorf("Expected RFC3339 timestamp, got '%s': %v", ts, err)
	}
}

func TestRespondJSONError(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	respondJSONError(w, http.StatusNotFound, "Not Found", "Analysis not found")

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if success, ok := body["success"].(bool); !ok || success {
		t.Error("Expected success to be false")
	}
	if body["error"] != "Not Found" {
		t.Errorf("Expected error 'Not Found', got '%v'", body["error"])
	}
	if body["message"] != "Analysis not found" {
		t.Errorf("Expected message 'Analysis not found', got '%v'", body["message"])
	}
}

func TestSanitizeErrorMessage_TruncatesLongMessages(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 500)
	got := sanitizeErrorMessage(long)

	if len(got) != 203 {
		t.Errorf("Expected truncated message of length 203, got %d", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("Expected truncated message to end with ellipsis")
	}
}
