package api

import (
	"net/http"

	apperrors "github.com/minyeol/songquiz/internal/errors"
	"github.com/minyeol/songquiz/internal/logger"
)

// handleError centralizes error responses. Every error becomes a short
// user-facing JSON message; only server-side failures are logged as errors.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		appErr = apperrors.NewInternalError(err)
	}

	if appErr.Status >= 500 {
		log.Error("server error: %v", appErr)
	} else {
		log.Warn("client error: %v", appErr)
	}

	writeJSON(w, r, appErr.Status, map[string]any{
		"error": map[string]any{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}
