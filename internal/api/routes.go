package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Post("/matches", s.handleStartMatch)
	r.Post("/matches/{channelID}/answers", s.handleSubmitAnswer)
	r.Post("/matches/{channelID}/hints", s.handleRequestHint)
	r.Post("/matches/{channelID}/skips", s.handleSkipVote)
	r.Post("/matches/{channelID}/end", s.handleEndMatch)

	r.Get("/leaderboard/points", s.handlePointLeaderboard)
	r.Get("/leaderboard/coins", s.handleCoinLeaderboard)
	r.Get("/accounts/{id}/coins", s.handleCoinBalance)
	r.Get("/accounts/{id}/transactions", s.handleTransactionHistory)

	r.Post("/catalog/refresh", s.handleRefreshCatalog)
	r.Get("/health", s.handleHealth)

	return r
}
