package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"autolanka/internal/apperrors"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeError maps the error taxonomy onto HTTP statuses. Internal causes are
// logged, never exposed.
func writeError(w http.ResponseWriter, err error) {
	var ae *apperrors.Error
	if errors.As(err, &ae) {
		if ae.Kind == apperrors.KindInternal {
			log.Printf("Internal error: %v", ae.Err)
		}
		writeMessage(w, ae.StatusCode(), ae.Message)
		return
	}
	log.Printf("Unexpected error: %v", err)
	writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
}
