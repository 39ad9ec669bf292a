package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/minyeol/songquiz/internal/errors"
	"github.com/minyeol/songquiz/internal/ledger"
	"github.com/minyeol/songquiz/internal/models"
)

func accountIDParam(r *http.Request) (models.AccountID, error) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, apperrors.NewBadRequestError("invalid account id: " + idStr)
	}
	return models.AccountID(id), nil
}

func (s *Server) handlePointLeaderboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"leaderboard": s.Ledger.AccountsRankedByPoint(),
	})
}

func (s *Server) handleCoinLeaderboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"leaderboard": s.Ledger.AccountsRankedByCoin(),
	})
}

func (s *Server) handleCoinBalance(w http.ResponseWriter, r *http.Request) {
	id, err := accountIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"id":   id,
		"coin": s.Ledger.CoinBalance(id),
	})
}

func (s *Server) handleTransactionHistory(w http.ResponseWriter, r *http.Request) {
	id, err := accountIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	limit := ledger.HistoryDisplayLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			handleError(w, r, apperrors.NewBadRequestError("invalid limit: "+v))
			return
		}
		limit = parsed
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"transactions": s.Ledger.History(id, limit),
	})
}
