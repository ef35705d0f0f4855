package crawlers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bpresles/CasaNova/common"
	"github.com/bpresles/CasaNova/common/constants"
	"github.com/bpresles/CasaNova/common/crawler"
	"github.com/bpresles/CasaNova/common/document"
	"github.com/bpresles/CasaNova/common/fetcher"
	"github.com/bpresles/CasaNova/common/messaging"
	"github.com/bpresles/CasaNova/common/models"
	"github.com/bpresles/CasaNova/common/sources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bankingPage = `<html><body>
<section><h2>Online banks</h2><p>Revolut and N26 open accounts in minutes.</p></section>
</body></html>`

const catalogYAML = `
banking:
  fr:
    - name: Expatica
      url: https://www.expatica.com/fr/finance/
      type: guide
    - name: Banque de France
      url: https://www.banque-france.fr/en
      type: official
  DE:
    - name: Make it in Germany
      url: https://www.make-it-in-germany.com/en/living-in-germany/money-insurance/bank-account
      type: official
`

type pageFetcher struct {
	pages map[string]string
}

func (f *pageFetcher) Fetch(_ context.Context, url string, _ ...fetcher.Option) (*fetcher.Page, error) {
	html, ok := f.pages[url]
	if !ok {
		return nil, &fetcher.FetchError{Kind: fetcher.ErrTransport, URL: url, Err: errors.New("HTTP 503")}
	}
	doc, err := document.ParseString(html, url)
	if err != nil {
		return nil, err
	}
	return &fetcher.Page{Document: doc, FinalURL: url, StatusCode: 200, Body: []byte(html)}, nil
}

type memoryGateway struct {
	mu        sync.Mutex
	codes     []string
	records   []models.Record
	logs      []models.ScrapeLog
	failFor   string
	insertErr error
}

// InsertRecord and AppendScrapeLog refuse a done context, as pgx does.
func (g *memoryGateway) InsertRecord(ctx context.Context, record models.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if record.Base().CountryCode == g.failFor {
		return g.insertErr
	}
	g.records = append(g.records, record)
	return nil
}

func (g *memoryGateway) AppendScrapeLog(ctx context.Context, entry models.ScrapeLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.logs = append(g.logs, entry)
	return nil
}

func (g *memoryGateway) ListCountryCodes(context.Context) ([]string, error) {
	return g.codes, nil
}

// cancellingFetcher cancels the scrape while cancelAt is being fetched.
type cancellingFetcher struct {
	pageFetcher
	cancelAt string
	cancel   context.CancelFunc
}

func (f *cancellingFetcher) Fetch(ctx context.Context, url string, opts ...fetcher.Option) (*fetcher.Page, error) {
	if url == f.cancelAt {
		f.cancel()
		return nil, &fetcher.FetchError{Kind: fetcher.ErrTransport, URL: url, Err: ctx.Err()}
	}
	return f.pageFetcher.Fetch(ctx, url, opts...)
}

type recordingPublisher struct {
	events []messaging.ScrapeCompletedEvent
}

func (p *recordingPublisher) PublishScrapeCompleted(_ context.Context, e messaging.ScrapeCompletedEvent) error {
	p.events = append(p.events, e)
	return nil
}

func newTestOrchestrator(t *testing.T, gw *memoryGateway, pub *recordingPublisher) *Orchestrator {
	t.Helper()
	catalog, err := sources.Parse([]byte(catalogYAML))
	require.NoError(t, err)

	f := &pageFetcher{pages: map[string]string{
		"https://www.expatica.com/fr/finance/": bankingPage,
		"https://www.make-it-in-germany.com/en/living-in-germany/money-insurance/bank-account": bankingPage,
	}}
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return NewOrchestrator(crawler.NewEngine(f), gw, catalog,
		WithEventPublisher(pub),
		WithClock(func() time.Time { return clock }))
}

func TestScrapeCountry(t *testing.T) {
	gw := &memoryGateway{}
	pub := &recordingPublisher{}
	o := newTestOrchestrator(t, gw, pub)

	records, err := o.ScrapeCountry(context.Background(), constants.Banking, "fr")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "FR", records[0].Base().CountryCode)
	assert.Len(t, gw.records, 1)

	require.Len(t, gw.logs, 2)
	ok, failed := gw.logs[0], gw.logs[1]
	assert.Equal(t, models.ScrapeStatusSuccess, ok.Status)
	assert.Equal(t, 1, ok.ItemsScraped)
	assert.Equal(t, "Expatica", ok.SourceName)
	assert.False(t, ok.StartedAt.IsZero())

	assert.Equal(t, models.ScrapeStatusError, failed.Status)
	assert.Equal(t, 0, failed.ItemsScraped)
	assert.Contains(t, failed.ErrorMessage.OrEmpty(), "HTTP 503")

	require.Len(t, pub.events, 1)
	assert.Equal(t, messaging.ScrapeCompletedEvent{
		Category:   constants.Banking,
		Country:    "FR",
		Items:      1,
		Sources:    2,
		Errors:     1,
		FinishedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}, pub.events[0])
}

func TestScrapeCountryEdgeCases(t *testing.T) {
	tests := []struct {
		name      string
		category  constants.Category
		code      string
		gw        *memoryGateway
		wantErr   error
		wantCount int
		wantLogs  int
	}{
		{
			name:     "unknown category",
			category: constants.Category("weather"),
			code:     "FR",
			gw:       &memoryGateway{},
			wantErr:  common.ErrUnknownCategory,
		},
		{
			name:     "country without sources",
			category: constants.Banking,
			code:     "JP",
			gw:       &memoryGateway{},
		},
		{
			name:     "persistence failure",
			category: constants.Banking,
			code:     "de",
			gw:       &memoryGateway{failFor: "DE", insertErr: errors.New("connection reset")},
			wantErr:  errors.New("connection reset"),
			wantLogs: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newTestOrchestrator(t, tt.gw, &recordingPublisher{})
			records, err := o.ScrapeCountry(context.Background(), tt.category, tt.code)
			switch {
			case tt.wantErr == nil:
				require.NoError(t, err)
			case errors.Is(tt.wantErr, common.ErrUnknownCategory):
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
			}
			assert.Len(t, records, tt.wantCount)
			assert.Len(t, tt.gw.logs, tt.wantLogs)
		})
	}
}

func TestScrapeCountryKeepsResultsWhenCancelled(t *testing.T) {
	catalog, err := sources.Parse([]byte(catalogYAML))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f := &cancellingFetcher{
		pageFetcher: pageFetcher{pages: map[string]string{"https://www.expatica.com/fr/finance/": bankingPage}},
		cancelAt:    "https://www.banque-france.fr/en",
		cancel:      cancel,
	}
	gw := &memoryGateway{}
	pub := &recordingPublisher{}
	o := NewOrchestrator(crawler.NewEngine(f), gw, catalog, WithEventPublisher(pub))

	records, err := o.ScrapeCountry(ctx, constants.Banking, "FR")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.ErrorIs(t, ctx.Err(), context.Canceled)

	require.Len(t, gw.records, 1)
	assert.Equal(t, "FR", gw.records[0].Base().CountryCode)

	require.Len(t, gw.logs, 2)
	assert.Equal(t, models.ScrapeStatusSuccess, gw.logs[0].Status)
	assert.Equal(t, models.ScrapeStatusError, gw.logs[1].Status)
	assert.Equal(t, "Banque de France", gw.logs[1].SourceName)
	assert.Contains(t, gw.logs[1].ErrorMessage.OrEmpty(), "context canceled")

	require.Len(t, pub.events, 1)
	assert.Equal(t, 1, pub.events[0].Errors)
}

func TestScrapeAllContinuesAfterCountryFailure(t *testing.T) {
	gw := &memoryGateway{
		codes:     []string{"DE", "FR", "JP"},
		failFor:   "DE",
		insertErr: errors.New("disk full"),
	}
	o := newTestOrchestrator(t, gw, &recordingPublisher{})

	results, err := o.ScrapeAll(context.Background(), constants.Banking)
	require.NoError(t, err)
	assert.Equal(t, []models.ScrapeResult{
		{Country: "FR", Count: 1},
		{Country: "JP", Count: 0},
	}, results)
}

func TestScrapeAllStopsWhenCancelled(t *testing.T) {
	gw := &memoryGateway{codes: []string{"DE", "FR"}}
	o := newTestOrchestrator(t, gw, &recordingPublisher{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := o.ScrapeAll(ctx, constants.Banking)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
	assert.Empty(t, gw.logs)
}

func TestScrapeEverything(t *testing.T) {
	gw := &memoryGateway{codes: []string{"FR"}}
	o := newTestOrchestrator(t, gw, &recordingPublisher{})

	summaries := o.ScrapeEverything(context.Background())
	require.Len(t, summaries, len(constants.Categories))
	for _, s := range summaries {
		assert.Empty(t, s.Err)
		if s.Category == constants.Banking {
			assert.Equal(t, 1, s.Total)
		} else {
			assert.Zero(t, s.Total)
		}
	}
}
