package utils

import (
	"encoding/json"
	"log"
	"net/http"
)

// RespondJSON writes payload as a JSON response. Every handler responds
// through here or RespondError so no route can return an empty body.
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("error encoding response: %v", err)
	}
}

// RespondError writes a JSON error body of the form {"message": ...}.
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, map[string]string{"message": message})
}

// RespondValidationError maps a field-level error list to a 400 response.
func RespondValidationError(w http.ResponseWriter, details interface{}) {
	RespondJSON(w, http.StatusBadRequest, map[string]interface{}{
		"message": "Validation error",
		"details": details,
	})
}
