package worker

import (
	"context"

	"github.com/minyeol/songquiz/internal/catalog"
	"github.com/minyeol/songquiz/internal/logger"
)

// RefreshCatalogJob reloads the track catalogue from disk. Queued when an
// admin asks for a refresh after the crawl pipeline rewrites songs.json.
type RefreshCatalogJob struct {
	Catalog *catalog.Service
}

func (j *RefreshCatalogJob) Name() string { return "refresh-catalog" }

func (j *RefreshCatalogJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	if err := j.Catalog.Refresh(); err != nil {
		return err
	}
	log.Info("catalogue refreshed: %d tracks", j.Catalog.Count())
	return nil
}
