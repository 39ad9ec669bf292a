// Package catalog serves the track catalogue produced by the offline crawl
// pipeline. The catalogue is read-only at runtime; Refresh reloads the file
// the pipeline rewrites.
package catalog

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"sync"

	apperrors "github.com/minyeol/songquiz/internal/errors"
	"github.com/minyeol/songquiz/internal/logger"
	"github.com/minyeol/songquiz/internal/models"
)

// Service holds the in-memory track catalogue loaded from a JSON file.
// Reads may run concurrently with a Refresh.
type Service struct {
	mu     sync.RWMutex
	path   string
	tracks []models.Track
	log    *logger.Logger
}

// New creates a catalogue service reading from the given JSON file.
// Call Load before first use.
func New(path string) *Service {
	return &Service{
		path: path,
		log:  logger.Default().WithPrefix("catalog"),
	}
}

// Load reads the catalogue file, replacing the in-memory track list.
func (s *Service) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read catalogue %s: %w", s.path, err)
	}

	var tracks []models.Track
	if err := json.Unmarshal(data, &tracks); err != nil {
		return fmt.Errorf("parse catalogue %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.tracks = tracks
	s.mu.Unlock()

	s.log.Info("catalogue loaded: %d tracks from %s", len(tracks), s.path)
	return nil
}

// Refresh reloads the catalogue file. On failure the previous catalogue
// stays in effect.
func (s *Service) Refresh() error {
	return s.Load()
}

// Count returns the number of tracks currently loaded.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tracks)
}

// Get returns the track with the given id.
func (s *Service) Get(id int) (models.Track, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tracks {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Track{}, apperrors.NewNotFoundError("track", id)
}

// Sample returns n distinct tracks drawn without replacement.
func (s *Service) Sample(n int) ([]models.Track, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n > len(s.tracks) {
		return nil, apperrors.NewValidationError("song_count",
			fmt.Sprintf("catalogue only has %d tracks, requested %d", len(s.tracks), n))
	}

	picked := make([]models.Track, len(s.tracks))
	copy(picked, s.tracks)
	rand.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	return picked[:n], nil
}
