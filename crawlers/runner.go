package crawlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/bpresles/CasaNova/common/constants"
	"github.com/bpresles/CasaNova/common/models"
	"github.com/bpresles/CasaNova/common/work"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// BulkScraper is the part of the orchestrator a bulk run needs.
type BulkScraper interface {
	ScrapeAll(ctx context.Context, category constants.Category) ([]models.ScrapeResult, error)
}

// BulkRunner runs ScrapeAll in the background, one pool per category. The
// work manager refuses a second run of a category while one is in progress,
// including runs started by another instance sharing the Redis store.
type BulkRunner struct {
	ctx     context.Context
	scraper BulkScraper
	works   *work.WorkManager
	pools   map[constants.Category]*work.Pool[[]models.ScrapeResult]
}

// NewBulkRunner creates and starts the category pools. ctx bounds every run;
// cancelling it stops the runs without clearing their work state.
func NewBulkRunner(ctx context.Context, scraper BulkScraper, works *work.WorkManager, cfg work.PoolConfig) (*BulkRunner, error) {
	r := &BulkRunner{
		ctx:     ctx,
		scraper: scraper,
		works:   works,
		pools:   make(map[constants.Category]*work.Pool[[]models.ScrapeResult], len(constants.Categories)),
	}
	for _, category := range constants.Categories {
		pool, err := work.NewPool[[]models.ScrapeResult](cfg)
		if err != nil {
			r.Stop()
			return nil, fmt.Errorf("creating %s pool: %w", category, err)
		}
		pool.Start(ctx, constants.WorkID(constants.ScrapeAllAction, category))
		go drainResults(category, pool)
		r.pools[category] = pool
	}
	return r, nil
}

func drainResults(category constants.Category, pool *work.Pool[[]models.ScrapeResult]) {
	for res := range pool.Results() {
		total := lo.SumBy(res.Result, func(r models.ScrapeResult) int { return r.Count })
		event := log.Info()
		if !res.IsSuccess() {
			event = log.Warn().Err(res.Error)
		}
		event.
			Str("workID", res.TaskID).
			Str("category", category.String()).
			Int("countries", len(res.Result)).
			Int("items", total).
			Dur("duration", res.Duration).
			Msg("Bulk scrape finished")
	}
}

// Start queues a bulk run of category and returns its work id. It returns
// work.ErrWorkRunning when the category is already being scraped.
func (r *BulkRunner) Start(ctx context.Context, category constants.Category) (string, error) {
	pool, ok := r.pools[category]
	if !ok {
		return "", fmt.Errorf("no bulk pool for %s", category)
	}

	workID := constants.WorkID(constants.ScrapeAllAction, category)
	if err := r.works.Start(ctx, workID); err != nil {
		return "", err
	}

	// The cancel func is attached before queueing so a cancel landing before a
	// worker picks the task up still stops it.
	runCtx, cancel := context.WithCancel(r.ctx)
	r.works.Attach(workID, cancel)

	task, err := work.NewTask(func(ctx context.Context) ([]models.ScrapeResult, error) {
		ctx, stop := context.WithCancel(ctx)
		defer stop()
		defer context.AfterFunc(runCtx, stop)()
		defer func() {
			// Cancel already dropped the state; a new run may own it by now.
			if runCtx.Err() != nil && r.ctx.Err() == nil {
				return
			}
			cancel()
			if err := r.works.Complete(context.WithoutCancel(ctx), workID); err != nil {
				log.Warn().Err(err).Str("workID", workID).Msg("Failed to mark work complete")
			}
		}()
		return r.scraper.ScrapeAll(ctx, category)
	}, work.WithID[[]models.ScrapeResult](workID))
	if err == nil {
		err = pool.TrySubmit(task)
	}
	if err != nil {
		cancel()
		if cerr := r.works.Complete(ctx, workID); cerr != nil {
			err = errors.Join(err, cerr)
		}
		return "", fmt.Errorf("queueing %s: %w", workID, err)
	}
	return workID, nil
}

// Stats reports the pool counters of every category.
func (r *BulkRunner) Stats() map[string]any {
	stats := make(map[string]any, len(r.pools))
	for category, pool := range r.pools {
		stats[category.String()] = pool.Stats()
	}
	return stats
}

// Stop stops every pool, waiting for running scrapes up to the shutdown timeout.
func (r *BulkRunner) Stop() {
	for _, pool := range r.pools {
		pool.Stop()
	}
}
