package api

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// Error codes returned in the "error" field of a failed response.
const (
	ErrorInvalidURL      = "InvalidUrl"
	ErrorInvalidRequest  = "InvalidRequest"
	ErrorInvalidUsername = "InvalidUsername"
	ErrorInternal        = "InternalError"
)

type errorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

func respondWithJSON(w http.ResponseWriter, statusCode int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		log.Errorf("failed to encode JSON response: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"InternalError"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write(body)
}

func respondWithError(w http.ResponseWriter, statusCode int, code string) {
	respondWithJSON(w, statusCode, errorResponse{Error: code})
}

func respondWithValidationError(w http.ResponseWriter, code string, err error) {
	respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: code, Details: formatValidationErrors(err)})
}
