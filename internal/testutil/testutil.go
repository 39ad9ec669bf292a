package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/minyeol/songquiz/internal/models"
)

// WriteJSONFile marshals v and writes it to path, failing the test on error.
func WriteJSONFile(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.MarshalIndent(v, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

// WriteCatalogFile writes tracks as a songs.json in dir and returns its path.
func WriteCatalogFile(t *testing.T, dir string, tracks []models.Track) string {
	t.Helper()
	path := filepath.Join(dir, "songs.json")
	WriteJSONFile(t, path, tracks)
	return path
}

// FixtureTracks returns n deterministic catalogue entries.
func FixtureTracks(n int) []models.Track {
	tracks := make([]models.Track, 0, n)
	for i := 1; i <= n; i++ {
		tracks = append(tracks, models.Track{
			ID:            i,
			Title:         fmt.Sprintf("Song %d", i),
			Artist:        fmt.Sprintf("Artist %d", i),
			AudioSourceID: fmt.Sprintf("src-%d", i),
			AudioTitle:    fmt.Sprintf("Song %d (Official Audio)", i),
			AudioDuration: 180,
		})
	}
	return tracks
}
