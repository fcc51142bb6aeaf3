package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"sparkd_server/services"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError maps the service error taxonomy to HTTP statuses. Internal
// causes stay in the log; clients get a generic message.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrSelfSwipe):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	case errors.Is(err, services.ErrAlreadyInteracted):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "Already interacted"})
	case errors.Is(err, services.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
	default:
		log.Printf("❌ Internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
}
