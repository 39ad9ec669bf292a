package api

import (
	"net/http"

	"github.com/minyeol/songquiz/internal/logger"
	"github.com/minyeol/songquiz/internal/worker"
)

func (s *Server) handleRefreshCatalog(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	s.JobPool.Submit(&worker.RefreshCatalogJob{Catalog: s.Catalog})
	log.Info("catalogue refresh queued")

	writeJSON(w, r, http.StatusAccepted, map[string]any{
		"message": "catalogue refresh queued",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status": "ok",
		"tracks": s.Catalog.Count(),
	})
}
