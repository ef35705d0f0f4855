package main

import (
	"context"
	"fmt"

	"github.com/bpresles/CasaNova/common/config"
	"github.com/bpresles/CasaNova/common/crawler"
	"github.com/bpresles/CasaNova/common/db"
	"github.com/bpresles/CasaNova/common/fetcher"
	"github.com/bpresles/CasaNova/common/logger"
	"github.com/bpresles/CasaNova/common/messaging"
	"github.com/bpresles/CasaNova/common/services"
	"github.com/bpresles/CasaNova/common/sources"
	"github.com/bpresles/CasaNova/common/storage"
	"github.com/bpresles/CasaNova/common/work"
	"github.com/bpresles/CasaNova/crawlers"
	"github.com/rs/zerolog/log"
)

// app holds the dependencies shared by the server and the scrape commands.
type app struct {
	cfg          config.Config
	db           *db.DB
	broker       *messaging.NatsBroker
	archive      *storage.GCSStorage
	logs         *logger.ScrapeLogService
	info         services.InfoService
	countries    services.CountryService
	orchestrator *crawlers.Orchestrator
	works        *work.WorkManager
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	catalog, err := sources.Load(cfg.Scraper.SourcesFile)
	if err != nil {
		return nil, err
	}

	dbConn, err := db.SetupDatabase(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("setting up database: %w", err)
	}
	a := &app{cfg: cfg, db: dbConn}

	var fetcherOpts []fetcher.FetcherOption
	if cfg.Scraper.RobotsCacheTTL > 0 {
		fetcherOpts = append(fetcherOpts, fetcher.WithRobotsCache(dbConn.Redis, cfg.Scraper.RobotsCacheTTL))
	}
	pageFetcher := fetcher.New(cfg.Scraper, fetcherOpts...)

	var engineOpts []crawler.EngineOption
	if cfg.GCS.Enabled() {
		a.archive, err = storage.NewGCSStorage(ctx, cfg.GCS)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("setting up GCS storage: %w", err)
		}
		engineOpts = append(engineOpts, crawler.WithArchiver(storage.NewSnapshotArchiver(a.archive)))
		log.Info().Str("bucket", cfg.GCS.Bucket).Msg("Page snapshots will be archived")
	}

	a.broker, err = messaging.SetupNatsBroker(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("setting up NATS: %w", err)
	}
	var orchestratorOpts []crawlers.OrchestratorOption
	if a.broker != nil {
		orchestratorOpts = append(orchestratorOpts, crawlers.WithEventPublisher(messaging.NewScrapeEventPublisher(a.broker)))
	}

	a.logs = logger.NewScrapeLogService(dbConn.Queries)
	gateway := services.NewPgGateway(dbConn.Queries, a.logs, services.WithUpsert(cfg.Scraper.Upsert))
	a.orchestrator = crawlers.NewOrchestrator(crawler.NewEngine(pageFetcher, engineOpts...), gateway, catalog, orchestratorOpts...)

	a.info = services.NewInfoRepository(dbConn.Queries)
	a.countries = services.NewCountryRepository(dbConn.Queries, a.info)
	a.works = work.NewWorkManager(dbConn.Redis)
	return a, nil
}

func (a *app) Close() {
	if a.broker != nil {
		if err := a.broker.Close(); err != nil {
			log.Warn().Err(err).Msg("Closing NATS connection")
		}
	}
	if a.archive != nil {
		if err := a.archive.Close(); err != nil {
			log.Warn().Err(err).Msg("Closing GCS client")
		}
	}
	a.db.Close()
}
