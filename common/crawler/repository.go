package crawler

import (
	"context"

	"github.com/bpresles/CasaNova/common/models"
)

// Gateway is the persistence side of a scrape. The scraping core only relies
// on these three operations, never on the storage schema.
type Gateway interface {
	// InsertRecord appends an extracted record, or updates the existing one
	// when upsert mode is enabled.
	InsertRecord(ctx context.Context, record models.Record) error

	// AppendScrapeLog writes one scrape attempt outcome.
	AppendScrapeLog(ctx context.Context, entry models.ScrapeLog) error

	// ListCountryCodes returns every known country code.
	ListCountryCodes(ctx context.Context) ([]string, error)
}
