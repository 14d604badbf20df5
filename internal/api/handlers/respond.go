package handlers

import (
	"encoding/json"
	"net/http"
)

// errorBody is the structured error payload carried by non-2xx responses
type errorBody struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, category, message string) {
	writeJSON(w, statusCode, map[string]interface{}{
		"status": "error",
		"error":  errorBody{Category: category, Message: message},
	})
}
