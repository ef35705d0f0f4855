package crawler

import (
	"context"
	"time"

	"github.com/bpresles/CasaNova/common/models"
	"github.com/rs/zerolog/log"
)

// Engine runs a profile against one source: fetch politely, then extract.
type Engine struct {
	fetcher  PageFetcher
	archiver SnapshotArchiver
	now      func() time.Time
}

type EngineOption func(*Engine)

// WithArchiver stores a snapshot of every fetched page.
func WithArchiver(a SnapshotArchiver) EngineOption {
	return func(e *Engine) {
		e.archiver = a
	}
}

func NewEngine(f PageFetcher, opts ...EngineOption) *Engine {
	e := &Engine{
		fetcher: f,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Scrape fetches src and extracts the records of profile from it. Fetch
// failures are returned as is; extraction itself cannot fail.
func (e *Engine) Scrape(ctx context.Context, profile *Profile, src models.Source, countryCode string) ([]models.Record, error) {
	page, err := e.fetcher.Fetch(ctx, src.URL)
	if err != nil {
		return nil, err
	}

	records := profile.Extract(page.Document, src, page.FinalURL, countryCode)

	if e.archiver != nil {
		snapshot := Snapshot{
			Category:    profile.Category,
			CountryCode: records[0].Base().CountryCode,
			Source:      src,
			FinalURL:    page.FinalURL,
			Body:        page.Body,
			FetchedAt:   e.now().UTC(),
		}
		if err := e.archiver.Archive(ctx, snapshot); err != nil {
			log.Warn().Err(err).
				Str("category", profile.Category.String()).
				Str("url", page.FinalURL).
				Msg("Failed to archive page snapshot")
		}
	}

	return records, nil
}
