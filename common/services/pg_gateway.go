package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/bpresles/CasaNova/common/crawler"
	"github.com/bpresles/CasaNova/common/logger"
	"github.com/bpresles/CasaNova/common/models"
	"github.com/bpresles/CasaNova/repository"
	"github.com/jackc/pgx/v5"
)

// PgGateway is the Postgres implementation of crawler.Gateway.
type PgGateway struct {
	db     *repository.Queries
	logs   *logger.ScrapeLogService
	upsert bool
}

var _ crawler.Gateway = (*PgGateway)(nil)

type GatewayOption func(*PgGateway)

// WithUpsert makes InsertRecord update the latest record sharing
// (country_code, source_url, title) instead of appending a new one.
func WithUpsert(enabled bool) GatewayOption {
	return func(g *PgGateway) {
		g.upsert = enabled
	}
}

func NewPgGateway(db *repository.Queries, logs *logger.ScrapeLogService, opts ...GatewayOption) *PgGateway {
	g := &PgGateway{
		db:   db,
		logs: logs,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *PgGateway) InsertRecord(ctx context.Context, record models.Record) error {
	var err error
	switch r := record.(type) {
	case *models.VisaInfo:
		err = g.writeVisa(ctx, r)
	case *models.JobInfo:
		err = g.writeJob(ctx, r)
	case *models.HousingInfo:
		err = g.writeHousing(ctx, r)
	case *models.HealthcareInfo:
		err = g.writeHealthcare(ctx, r)
	case *models.BankingInfo:
		err = g.writeBanking(ctx, r)
	default:
		return fmt.Errorf("unsupported record type %T", record)
	}
	if err != nil {
		return fmt.Errorf("writing %s record %q: %w", record.InfoCategory(), record.Base().Title, err)
	}
	return nil
}

func (g *PgGateway) AppendScrapeLog(ctx context.Context, entry models.ScrapeLog) error {
	return g.logs.Record(ctx, entry)
}

func (g *PgGateway) ListCountryCodes(ctx context.Context) ([]string, error) {
	codes, err := g.db.ListCountryCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing country codes: %w", err)
	}
	return codes, nil
}

// write runs update first in upsert mode and falls back to create when no row
// has the key.
func write[P any](ctx context.Context, upsert bool, params P,
	update func(context.Context, P) (int64, error),
	create func(context.Context, P) (int64, error),
) (int64, error) {
	if upsert {
		id, err := update(ctx, params)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return 0, err
		}
	}
	return create(ctx, params)
}

func (g *PgGateway) writeVisa(ctx context.Context, v *models.VisaInfo) error {
	params, err := visaParams(v)
	if err != nil {
		return err
	}
	id, err := write(ctx, g.upsert, params, g.db.UpdateVisaInfoByKey, g.db.CreateVisaInfo)
	if err != nil {
		return err
	}
	v.ID = id
	return nil
}

func (g *PgGateway) writeJob(ctx context.Context, j *models.JobInfo) error {
	params, err := jobParams(j)
	if err != nil {
		return err
	}
	id, err := write(ctx, g.upsert, params, g.db.UpdateJobInfoByKey, g.db.CreateJobInfo)
	if err != nil {
		return err
	}
	j.ID = id
	return nil
}

func (g *PgGateway) writeHousing(ctx context.Context, h *models.HousingInfo) error {
	params, err := housingParams(h)
	if err != nil {
		return err
	}
	id, err := write(ctx, g.upsert, params, g.db.UpdateHousingInfoByKey, g.db.CreateHousingInfo)
	if err != nil {
		return err
	}
	h.ID = id
	return nil
}

func (g *PgGateway) writeHealthcare(ctx context.Context, h *models.HealthcareInfo) error {
	params, err := healthcareParams(h)
	if err != nil {
		return err
	}
	id, err := write(ctx, g.upsert, params, g.db.UpdateHealthcareInfoByKey, g.db.CreateHealthcareInfo)
	if err != nil {
		return err
	}
	h.ID = id
	return nil
}

func (g *PgGateway) writeBanking(ctx context.Context, b *models.BankingInfo) error {
	params, err := bankingParams(b)
	if err != nil {
		return err
	}
	id, err := write(ctx, g.upsert, params, g.db.UpdateBankingInfoByKey, g.db.CreateBankingInfo)
	if err != nil {
		return err
	}
	b.ID = id
	return nil
}
