package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bpresles/CasaNova/common/config"
	"github.com/bpresles/CasaNova/common/models"
	"github.com/bpresles/CasaNova/common/utils"
	"github.com/bpresles/CasaNova/repository"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global zerolog logger from the log section of the config.
func Setup(cfg config.Config) {
	SetupWriter(cfg, os.Stderr)
}

func SetupWriter(cfg config.Config, w io.Writer) {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Log.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.Log.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

// ScrapeLogService persists one row per source attempt and mirrors it as a log event.
type ScrapeLogService struct {
	queries *repository.Queries
}

func NewScrapeLogService(queries *repository.Queries) *ScrapeLogService {
	return &ScrapeLogService{
		queries: queries,
	}
}

// Record writes entry to scrape_logs.
func (s *ScrapeLogService) Record(ctx context.Context, entry models.ScrapeLog) error {
	params := repository.CreateScrapeLogParams{
		SourceName:   entry.SourceName,
		SourceUrl:    entry.SourceURL,
		Status:       string(entry.Status),
		ItemsScraped: int32(entry.ItemsScraped),
		ErrorMessage: utils.TextFromOption(entry.ErrorMessage),
		StartedAt:    utils.Timestamptz(entry.StartedAt),
		CompletedAt:  utils.Timestamptz(entry.CompletedAt),
	}

	if _, err := s.queries.CreateScrapeLog(ctx, params); err != nil {
		log.Error().Err(err).Str("source", entry.SourceName).Msg("Failed to insert scrape log")
		return fmt.Errorf("inserting scrape log: %w", err)
	}

	event := log.Info()
	if entry.Status == models.ScrapeStatusError {
		event = log.Warn()
		if msg, ok := entry.ErrorMessage.Get(); ok {
			event = event.Str("error", msg)
		}
	}
	event.
		Str("source", entry.SourceName).
		Str("url", entry.SourceURL).
		Str("status", string(entry.Status)).
		Int("items", entry.ItemsScraped).
		Dur("duration", entry.CompletedAt.Sub(entry.StartedAt)).
		Msg("Scrape attempt")

	return nil
}

// List returns one page of scrape logs, most recent first, and the total count.
// An empty status matches every row.
func (s *ScrapeLogService) List(ctx context.Context, status string, page, perPage int) ([]models.ScrapeLog, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	filter := pgtype.Text{String: status, Valid: status != ""}

	total, err := s.queries.CountScrapeLogs(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("counting scrape logs: %w", err)
	}

	rows, err := s.queries.ListScrapeLogs(ctx, repository.ListScrapeLogsParams{
		Status: filter,
		Limit:  int32(perPage),
		Offset: int32((page - 1) * perPage),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("listing scrape logs: %w", err)
	}

	logs := make([]models.ScrapeLog, 0, len(rows))
	for _, r := range rows {
		logs = append(logs, models.ScrapeLog{
			ID:           r.ID,
			SourceName:   r.SourceName,
			SourceURL:    r.SourceUrl,
			Status:       models.ScrapeStatus(r.Status),
			ItemsScraped: int(r.ItemsScraped),
			ErrorMessage: utils.OptionFromText(r.ErrorMessage),
			StartedAt:    r.StartedAt.Time,
			CompletedAt:  r.CompletedAt.Time,
		})
	}
	return logs, total, nil
}
