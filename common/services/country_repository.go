package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/bpresles/CasaNova/common"
	"github.com/bpresles/CasaNova/common/constants"
	"github.com/bpresles/CasaNova/common/models"
	"github.com/bpresles/CasaNova/common/utils"
	"github.com/bpresles/CasaNova/repository"
	"github.com/jackc/pgx/v5"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const summaryLatest = 3

// CountryRepository is a PostgreSQL implementation of CountryService
type CountryRepository struct {
	db   *repository.Queries
	info InfoService
}

func NewCountryRepository(db *repository.Queries, info InfoService) CountryService {
	return &CountryRepository{
		db:   db,
		info: info,
	}
}

func (r *CountryRepository) List(ctx context.Context, region string) ([]models.Country, error) {
	rows, err := r.db.ListCountries(ctx, utils.TextFromString(region))
	if err != nil {
		return nil, err
	}
	return lo.Map(rows, func(row repository.Country, _ int) models.Country {
		return countryFromRow(row)
	}), nil
}

func (r *CountryRepository) Regions(ctx context.Context) ([]models.RegionCount, error) {
	rows, err := r.db.ListRegions(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(rows, func(row repository.ListRegionsRow, _ int) models.RegionCount {
		return models.RegionCount{Region: row.Region, CountryCount: row.CountryCount}
	}), nil
}

func (r *CountryRepository) Get(ctx context.Context, code string) (models.Country, error) {
	row, err := r.db.GetCountry(ctx, code)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Country{}, common.ErrNotFound
	}
	if err != nil {
		return models.Country{}, err
	}
	return countryFromRow(row), nil
}

func (r *CountryRepository) Detail(ctx context.Context, code string) (models.CountryDetail, error) {
	country, err := r.Get(ctx, code)
	if err != nil {
		return models.CountryDetail{}, err
	}

	counts, err := r.db.CountCountryEntries(ctx, code)
	if err != nil {
		return models.CountryDetail{}, fmt.Errorf("counting entries for %s: %w", code, err)
	}

	detail := models.CountryDetail{
		Country: country,
		AvailableInfo: map[string]int64{
			constants.Visa.String():       counts.Visa,
			constants.Job.String():        counts.Job,
			constants.Housing.String():    counts.Housing,
			constants.Healthcare.String(): counts.Healthcare,
			constants.Banking.String():    counts.Banking,
		},
		Endpoints: make(map[string]string, len(constants.Categories)),
	}
	for _, c := range constants.Categories {
		detail.Endpoints[c.String()] = fmt.Sprintf("/v1/%s/%s", c, code)
	}
	return detail, nil
}

// Summary queries the five categories concurrently.
func (r *CountryRepository) Summary(ctx context.Context, code string) (models.CountrySummary, error) {
	country, err := r.Get(ctx, code)
	if err != nil {
		return models.CountrySummary{}, err
	}

	latest := make([][]models.Record, len(constants.Categories))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range constants.Categories {
		g.Go(func() error {
			records, err := r.info.List(gctx, c, InfoFilter{CountryCode: code, Limit: summaryLatest})
			if err != nil {
				return fmt.Errorf("latest %s records: %w", c, err)
			}
			latest[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.CountrySummary{}, err
	}

	summary := models.CountrySummary{
		Country: country,
		Summary: make(map[constants.Category][]models.Record, len(constants.Categories)),
	}
	for i, c := range constants.Categories {
		if latest[i] == nil {
			latest[i] = []models.Record{}
		}
		summary.Summary[c] = latest[i]
	}
	return summary, nil
}
