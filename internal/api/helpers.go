package api

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/minyeol/songquiz/internal/errors"
	"github.com/minyeol/songquiz/internal/logger"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.NewBadRequestError("invalid JSON body")
	}
	return nil
}
