package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/scenevault/internal/common"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{StatusCode: status, Message: message})
}

// writeServiceError maps a SceneService error to a status code. Anything that
// is not a client error is reported with the generic fallback message.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, common.ErrInvalidIdentifier):
		writeError(w, http.StatusBadRequest, "Invalid user ID or scene ID")
	case errors.Is(err, common.ErrMissingEncryptionKey):
		writeError(w, http.StatusBadRequest, "Missing encryption key")
	default:
		writeError(w, http.StatusInternalServerError, fallback)
	}
}
