package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/bpresles/CasaNova/common"
	"github.com/bpresles/CasaNova/common/config"
	"github.com/bpresles/CasaNova/common/constants"
	"github.com/bpresles/CasaNova/common/db"
	"github.com/bpresles/CasaNova/common/logger"
	"github.com/bpresles/CasaNova/common/messaging"
	"github.com/bpresles/CasaNova/common/models"
	"github.com/bpresles/CasaNova/common/work"
	"github.com/bpresles/CasaNova/crawlers"
	"github.com/bpresles/CasaNova/repository"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	_ "github.com/bpresles/CasaNova/docs"
)

// @title          CasaNova API
// @version        1.0
// @description    Information for people moving abroad (visas, jobs, housing, healthcare and banking), scraped from official and reference sources.

// @contact.name  CasaNova
// @contact.email contact@casanova.app

// @host     localhost:8080
// @BasePath /
// @schemes  http https

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func loadConfig() config.Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file, using environment variables")
	}

	cfg := config.DefaultConfig()
	cfg.LoadFromEnv()
	logger.Setup(cfg)
	return cfg
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           common.AppName,
		Short:         "Scrapes and serves expatriation information per country",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe()
			},
		},
		&cobra.Command{
			Use:   "scrape <category> [country-code]",
			Short: "Scrape one country, or every country when no code is given",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runScrape(cmd, args)
			},
		},
		&cobra.Command{
			Use:   "scrape-all",
			Short: "Scrape every category for every country",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runScrapeAll(cmd)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply database migrations and seed the countries",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runMigrate(cmd)
			},
		},
		&cobra.Command{
			Use:   "watch",
			Short: "Print scrape completed events from NATS",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runWatch(cmd)
			},
		},
	)
	return root
}

func runServe() error {
	cfg := loadConfig()

	ctx, cancel := signalContext()
	defer cancel()

	a, err := newApp(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize")
		return err
	}
	defer a.Close()

	bulk, err := crawlers.NewBulkRunner(ctx, a.orchestrator, a.works, work.DefaultPoolConfig())
	if err != nil {
		log.Error().Err(err).Msg("Failed to start bulk runner")
		return err
	}
	defer bulk.Stop()

	server := NewAppHttpServer(cfg, a, bulk)
	server.setupRoute()

	go func() {
		if err := server.start(); err != nil {
			log.Error().Err(err).Msg("Server error")
			cancel()
		}
	}()

	log.Info().Str("address", cfg.Listen.Addr()).Msg("Server started successfully")
	log.Info().Str("swagger", fmt.Sprintf("http://%s/swagger/index.html", cfg.Listen.Addr())).Msg("Swagger documentation available at")

	<-ctx.Done()
	log.Info().Msg("Shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("Server gracefully stopped")
	return nil
}

func runScrape(cmd *cobra.Command, args []string) error {
	category, ok := constants.ParseCategory(args[0])
	if !ok {
		return fmt.Errorf("%w: %q (want one of %v)", common.ErrUnknownCategory, args[0], constants.Categories)
	}
	cfg := loadConfig()

	ctx, cancel := signalContext()
	defer cancel()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	if len(args) == 2 {
		records, err := a.orchestrator.ScrapeCountry(ctx, category, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Scraped %d %s items for %s\n", len(records), category, args[1])
		return nil
	}

	results, err := a.orchestrator.ScrapeAll(ctx, category)
	printSummary(out, []models.CategorySummary{summarize(category, results, err)})
	return err
}

func runScrapeAll(cmd *cobra.Command) error {
	cfg := loadConfig()

	ctx, cancel := signalContext()
	defer cancel()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	start := time.Now()
	summaries := a.orchestrator.ScrapeEverything(ctx)
	printSummary(cmd.OutOrStdout(), summaries)
	fmt.Fprintf(cmd.OutOrStdout(), "Finished in %s\n", time.Since(start).Round(time.Second))
	return ctx.Err()
}

func summarize(category constants.Category, results []models.ScrapeResult, err error) models.CategorySummary {
	s := models.CategorySummary{Category: category, Countries: results}
	for _, r := range results {
		s.Total += r.Count
	}
	if err != nil {
		s.Err = err.Error()
	}
	return s
}

func printSummary(out io.Writer, summaries []models.CategorySummary) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tCOUNTRIES\tITEMS\tERROR")
	total := 0
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", s.Category, len(s.Countries), s.Total, s.Err)
		total += s.Total
	}
	fmt.Fprintf(w, "TOTAL\t\t%d\t\n", total)
	_ = w.Flush()
}

func runMigrate(cmd *cobra.Command) error {
	cfg := loadConfig()

	ctx, cancel := signalContext()
	defer cancel()

	dbConn, err := db.SetupDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	applied, err := repository.Migrate(ctx, dbConn.Pool)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Database is up to date")
		return nil
	}
	for _, version := range applied {
		fmt.Fprintf(cmd.OutOrStdout(), "Applied %s\n", version)
	}
	return nil
}

func runWatch(cmd *cobra.Command) error {
	cfg := loadConfig()
	if !cfg.Nats.Enabled {
		return errors.New("NATS is disabled, set NATS_ENABLED=true")
	}

	ctx, cancel := signalContext()
	defer cancel()

	broker, err := messaging.SetupNatsBroker(ctx, cfg)
	if err != nil {
		return err
	}
	defer broker.Close()

	out := cmd.OutOrStdout()
	consumeCtx, err := messaging.WatchScrapeEvents(ctx, broker, cfg.Nats.StreamName, func(_ context.Context, e messaging.ScrapeCompletedEvent) error {
		_, err := fmt.Fprintf(out, "%s  %-10s %s  items=%d sources=%d errors=%d\n",
			e.FinishedAt.Format(time.RFC3339), e.Category, e.Country, e.Items, e.Sources, e.Errors)
		return err
	})
	if err != nil {
		return err
	}
	defer consumeCtx.Stop()

	<-ctx.Done()
	return nil
}
