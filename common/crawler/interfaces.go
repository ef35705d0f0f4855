package crawler

import (
	"context"
	"time"

	"github.com/bpresles/CasaNova/common/constants"
	"github.com/bpresles/CasaNova/common/fetcher"
	"github.com/bpresles/CasaNova/common/models"
)

// PageFetcher retrieves a page politely. *fetcher.Fetcher implements it.
type PageFetcher interface {
	Fetch(ctx context.Context, url string, opts ...fetcher.Option) (*fetcher.Page, error)
}

// Snapshot is the raw page behind a scrape, kept for auditing extraction results.
type Snapshot struct {
	Category    constants.Category
	CountryCode string
	Source      models.Source
	FinalURL    string
	Body        []byte
	FetchedAt   time.Time
}

// SnapshotArchiver stores page snapshots. Failures never fail the scrape.
type SnapshotArchiver interface {
	Archive(ctx context.Context, snapshot Snapshot) error
}
