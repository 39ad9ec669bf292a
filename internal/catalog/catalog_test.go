package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minyeol/songquiz/internal/catalog"
	apperrors "github.com/minyeol/songquiz/internal/errors"
	"github.com/minyeol/songquiz/internal/testutil"
)

func loadedService(t *testing.T, trackCount int) *catalog.Service {
	t.Helper()
	path := testutil.WriteCatalogFile(t, t.TempDir(), testutil.FixtureTracks(trackCount))
	svc := catalog.New(path)
	require.NoError(t, svc.Load())
	return svc
}

func TestLoad(t *testing.T) {
	svc := loadedService(t, 15)
	assert.Equal(t, 15, svc.Count())
}

func TestLoad_MissingFile(t *testing.T) {
	svc := catalog.New(t.TempDir() + "/nope.json")
	assert.Error(t, svc.Load())
	assert.Zero(t, svc.Count())
}

func TestGet(t *testing.T) {
	svc := loadedService(t, 5)

	track, err := svc.Get(3)
	require.NoError(t, err)
	assert.Equal(t, 3, track.ID)

	_, err = svc.Get(999)
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
}

func TestSample_DistinctTracks(t *testing.T) {
	svc := loadedService(t, 20)

	tracks, err := svc.Sample(10)
	require.NoError(t, err)
	require.Len(t, tracks, 10)

	seen := make(map[int]bool)
	for _, tr := range tracks {
		assert.False(t, seen[tr.ID], "track %d sampled twice", tr.ID)
		seen[tr.ID] = true
	}
}

func TestSample_RequestExceedsCatalogue(t *testing.T) {
	svc := loadedService(t, 5)

	_, err := svc.Sample(10)
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
}

func TestRefresh_ReplacesCatalogue(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteCatalogFile(t, dir, testutil.FixtureTracks(5))
	svc := catalog.New(path)
	require.NoError(t, svc.Load())
	require.Equal(t, 5, svc.Count())

	testutil.WriteCatalogFile(t, dir, testutil.FixtureTracks(8))
	require.NoError(t, svc.Refresh())
	assert.Equal(t, 8, svc.Count())
}
