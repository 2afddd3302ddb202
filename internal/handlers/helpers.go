package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

const maxErrorMessageLen = 200

func writeEnvelope(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// respondJSON writes data inside the standard success envelope.
func respondJSON(w http.ResponseWriter, status int, data any) {
	writeEnvelope(w, status, map[string]any{
		"success": true,
		"data":    data,
	})
}

// sanitizeErrorMessage caps message length so upstream error text
// cannot dump arbitrary detail into a response.
func sanitizeErrorMessage(message string) string {
	if len(message) > maxErrorMessageLen {
		return message[:maxErrorMessageLen] + "..."
	}
	return message
}

// respondJSONError writes the standard error envelope.
func respondJSONError(w http.ResponseWriter, status int, errorType, message string) {
	writeEnvelope(w, status, map[string]any{
		"success": false,
		"error":   errorType,
		"message": sanitizeErrorMessage(message),
	})
}
