package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/minyeol/songquiz/internal/errors"
	"github.com/minyeol/songquiz/internal/models"
	"github.com/minyeol/songquiz/internal/quiz"
)

type startMatchRequest struct {
	GuildID      string `json:"guild_id"`
	ChannelID    string `json:"channel_id"`
	UserID       int64  `json:"user_id"`
	SongCount    int    `json:"song_count"`
	RandomOffset bool   `json:"random_offset"`
	InVoice      bool   `json:"in_voice"`
}

func (s *Server) handleStartMatch(w http.ResponseWriter, r *http.Request) {
	var req startMatchRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.ChannelID == "" {
		handleError(w, r, apperrors.NewValidationError("channel_id", "required"))
		return
	}

	err := s.Engine.Start(quiz.StartParams{
		GuildID:      req.GuildID,
		ChannelID:    req.ChannelID,
		UserID:       models.AccountID(req.UserID),
		SongCount:    req.SongCount,
		RandomOffset: req.RandomOffset,
		InVoice:      req.InVoice,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, map[string]any{
		"message": "quiz started",
	})
}

type submitAnswerRequest struct {
	UserID int64  `json:"user_id"`
	Text   string `json:"text"`
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	channelID := chi.URLParam(r, "channelID")

	var req submitAnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.Engine.Submit(channelID, models.AccountID(req.UserID), req.Text)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"result": result.String(),
	})
}

func (s *Server) handleRequestHint(w http.ResponseWriter, r *http.Request) {
	channelID := chi.URLParam(r, "channelID")

	hint, err := s.Engine.Hint(channelID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"header": hint.Header,
		"body":   hint.Body,
		"footer": hint.Footer,
	})
}

type skipVoteRequest struct {
	UserID int64 `json:"user_id"`
}

func (s *Server) handleSkipVote(w http.ResponseWriter, r *http.Request) {
	channelID := chi.URLParam(r, "channelID")

	var req skipVoteRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	skipped, err := s.Engine.Skip(channelID, models.AccountID(req.UserID))
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"skipped": skipped,
	})
}

func (s *Server) handleEndMatch(w http.ResponseWriter, r *http.Request) {
	channelID := chi.URLParam(r, "channelID")

	if err := s.Engine.Terminate(channelID); err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"message": "quiz ended",
	})
}
