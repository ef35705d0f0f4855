package crawlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bpresles/CasaNova/common"
	"github.com/bpresles/CasaNova/common/constants"
	"github.com/bpresles/CasaNova/common/crawler"
	"github.com/bpresles/CasaNova/common/messaging"
	"github.com/bpresles/CasaNova/common/models"
	"github.com/rs/zerolog/log"
	"github.com/samber/mo"
)

// SourceCatalog returns the configured sources of a country, in order.
// *sources.Catalog implements it.
type SourceCatalog interface {
	For(category constants.Category, countryCode string) []models.Source
}

// EventPublisher announces finished country scrapes.
type EventPublisher interface {
	PublishScrapeCompleted(ctx context.Context, event messaging.ScrapeCompletedEvent) error
}

// Orchestrator drives the category scrapers over the configured sources and
// hands the results to the persistence gateway.
type Orchestrator struct {
	engine  *crawler.Engine
	gateway crawler.Gateway
	sources SourceCatalog
	events  EventPublisher
	now     func() time.Time
}

type OrchestratorOption func(*Orchestrator)

// WithEventPublisher publishes a ScrapeCompletedEvent after every country.
func WithEventPublisher(p EventPublisher) OrchestratorOption {
	return func(o *Orchestrator) {
		o.events = p
	}
}

// WithClock replaces time.Now for scrape log timestamps.
func WithClock(now func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) {
		o.now = now
	}
}

func NewOrchestrator(engine *crawler.Engine, gateway crawler.Gateway, sources SourceCatalog, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		engine:  engine,
		gateway: gateway,
		sources: sources,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ScrapeCountry scrapes every source of a country for one category, one
// source after the other, then persists all extracted records. A failing
// source is logged and skipped. The error is non-nil only for an unknown
// category or when persisting fails; records written before the failure stay.
// Cancelling ctx stops before the next source, but the scrape logs and the
// records already extracted are still written.
func (o *Orchestrator) ScrapeCountry(ctx context.Context, category constants.Category, countryCode string) ([]models.Record, error) {
	profile, err := crawler.GetProfile(category)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", common.ErrUnknownCategory, category)
	}
	code := strings.ToUpper(strings.TrimSpace(countryCode))

	srcs := o.sources.For(category, code)
	persistCtx := context.WithoutCancel(ctx)
	var (
		records []models.Record
		failed  int
	)
	for _, src := range srcs {
		if ctx.Err() != nil {
			break
		}

		started := o.now()
		found, err := o.engine.Scrape(ctx, profile, src, code)
		entry := models.ScrapeLog{
			SourceName:   src.Name,
			SourceURL:    src.URL,
			Status:       models.ScrapeStatusSuccess,
			ItemsScraped: len(found),
			StartedAt:    started,
			CompletedAt:  o.now(),
		}
		if err != nil {
			failed++
			entry.Status = models.ScrapeStatusError
			entry.ItemsScraped = 0
			entry.ErrorMessage = mo.Some(err.Error())
		}
		if logErr := o.gateway.AppendScrapeLog(persistCtx, entry); logErr != nil {
			log.Warn().Err(logErr).Str("source", src.Name).Msg("Failed to write scrape log")
		}
		if err != nil {
			log.Error().Err(err).
				Str("category", category.String()).
				Str("country", code).
				Str("url", src.URL).
				Msg("Source scrape failed")
			continue
		}
		records = append(records, found...)
	}

	for _, record := range records {
		if err := o.gateway.InsertRecord(persistCtx, record); err != nil {
			return nil, fmt.Errorf("persisting %s records for %s: %w", category, code, err)
		}
	}

	log.Info().
		Str("category", category.String()).
		Str("country", code).
		Int("sources", len(srcs)).
		Int("failed", failed).
		Int("items", len(records)).
		Msg("Country scrape finished")

	o.publish(persistCtx, messaging.ScrapeCompletedEvent{
		Category:   category,
		Country:    code,
		Items:      len(records),
		Sources:    len(srcs),
		Errors:     failed,
		FinishedAt: o.now().UTC(),
	})
	return records, nil
}

func (o *Orchestrator) publish(ctx context.Context, event messaging.ScrapeCompletedEvent) {
	if o.events == nil {
		return
	}
	if err := o.events.PublishScrapeCompleted(ctx, event); err != nil {
		log.Warn().Err(err).
			Str("category", event.Category.String()).
			Str("country", event.Country).
			Msg("Failed to publish scrape event")
	}
}

// ScrapeAll runs ScrapeCountry for every known country. Country failures are
// logged and do not stop the run. It stops early when ctx is cancelled and
// returns the results gathered so far with the context error.
func (o *Orchestrator) ScrapeAll(ctx context.Context, category constants.Category) ([]models.ScrapeResult, error) {
	if _, err := crawler.GetProfile(category); err != nil {
		return nil, fmt.Errorf("%w: %s", common.ErrUnknownCategory, category)
	}

	codes, err := o.gateway.ListCountryCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing countries: %w", err)
	}

	results := make([]models.ScrapeResult, 0, len(codes))
	for _, code := range codes {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		records, err := o.ScrapeCountry(ctx, category, code)
		if err != nil {
			log.Error().Err(err).
				Str("category", category.String()).
				Str("country", code).
				Msg("Country scrape failed")
			continue
		}
		results = append(results, models.ScrapeResult{Country: code, Count: len(records)})
	}
	return results, nil
}

// ScrapeEverything runs ScrapeAll for each category in turn.
func (o *Orchestrator) ScrapeEverything(ctx context.Context) []models.CategorySummary {
	summaries := make([]models.CategorySummary, 0, len(constants.Categories))
	for _, category := range constants.Categories {
		results, err := o.ScrapeAll(ctx, category)
		summary := models.CategorySummary{Category: category, Countries: results}
		for _, r := range results {
			summary.Total += r.Count
		}
		if err != nil {
			summary.Err = err.Error()
			log.Error().Err(err).Str("category", category.String()).Msg("Category scrape failed")
		}
		summaries = append(summaries, summary)
		if errors.Is(err, context.Canceled) {
			break
		}
	}
	return summaries
}
