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
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/samber/lo"
)

// InfoRepository is a PostgreSQL implementation of InfoService
type InfoRepository struct {
	db *repository.Queries
}

func NewInfoRepository(db *repository.Queries) InfoService {
	return &InfoRepository{
		db: db,
	}
}

func limitParam(limit int) pgtype.Int4 {
	return pgtype.Int4{Int32: int32(limit), Valid: limit > 0}
}

func (r *InfoRepository) List(ctx context.Context, category constants.Category, f InfoFilter) ([]models.Record, error) {
	country := utils.TextFromString(f.CountryCode)
	label := utils.TextFromString(f.Label)
	language := utils.TextFromString(f.Language)
	limit := limitParam(f.Limit)

	switch category {
	case constants.Visa:
		rows, err := r.db.ListVisaInfo(ctx, repository.ListVisaInfoParams{
			CountryCode: country, VisaType: label, Language: language, Limit: limit,
		})
		if err != nil {
			return nil, err
		}
		return recordsFromRows(rows, visaFromRow)
	case constants.Job:
		rows, err := r.db.ListJobInfo(ctx, repository.ListJobInfoParams{
			CountryCode: country, Category: label, Language: language, Limit: limit,
		})
		if err != nil {
			return nil, err
		}
		return recordsFromRows(rows, jobFromRow)
	case constants.Housing:
		rows, err := r.db.ListHousingInfo(ctx, repository.ListHousingInfoParams{
			CountryCode: country, City: utils.TextFromString(f.City), Category: label, Language: language, Limit: limit,
		})
		if err != nil {
			return nil, err
		}
		return recordsFromRows(rows, housingFromRow)
	case constants.Healthcare:
		rows, err := r.db.ListHealthcareInfo(ctx, repository.ListHealthcareInfoParams{
			CountryCode: country, Category: label, Language: language, Limit: limit,
		})
		if err != nil {
			return nil, err
		}
		return recordsFromRows(rows, healthcareFromRow)
	case constants.Banking:
		rows, err := r.db.ListBankingInfo(ctx, repository.ListBankingInfoParams{
			CountryCode: country, Category: label, Language: language, Limit: limit,
		})
		if err != nil {
			return nil, err
		}
		return recordsFromRows(rows, bankingFromRow)
	}
	return nil, fmt.Errorf("%w: %s", common.ErrUnknownCategory, category)
}

func (r *InfoRepository) ListByCountry(ctx context.Context, category constants.Category, f InfoFilter) ([]models.Record, error) {
	label := utils.TextFromString(f.Label)

	switch category {
	case constants.Visa:
		rows, err := r.db.ListVisaInfoByCountry(ctx, repository.ListVisaInfoByCountryParams{
			CountryCode: f.CountryCode, VisaType: label,
		})
		if err != nil {
			return nil, err
		}
		return recordsFromRows(rows, visaFromRow)
	case constants.Job:
		rows, err := r.db.ListJobInfoByCountry(ctx, repository.ListJobInfoByCountryParams{
			CountryCode: f.CountryCode, Category: label,
		})
		if err != nil {
			return nil, err
		}
		return recordsFromRows(rows, jobFromRow)
	case constants.Housing:
		rows, err := r.db.ListHousingInfoByCountry(ctx, repository.ListHousingInfoByCountryParams{
			CountryCode: f.CountryCode, City: utils.TextFromString(f.City), Category: label,
		})
		if err != nil {
			return nil, err
		}
		return recordsFromRows(rows, housingFromRow)
	case constants.Healthcare:
		rows, err := r.db.ListHealthcareInfoByCountry(ctx, repository.ListHealthcareInfoByCountryParams{
			CountryCode: f.CountryCode, Category: label,
		})
		if err != nil {
			return nil, err
		}
		return recordsFromRows(rows, healthcareFromRow)
	case constants.Banking:
		rows, err := r.db.ListBankingInfoByCountry(ctx, repository.ListBankingInfoByCountryParams{
			CountryCode: f.CountryCode, Category: label,
		})
		if err != nil {
			return nil, err
		}
		return recordsFromRows(rows, bankingFromRow)
	}
	return nil, fmt.Errorf("%w: %s", common.ErrUnknownCategory, category)
}

func (r *InfoRepository) CountriesWithEntries(ctx context.Context, category constants.Category) ([]models.CountryEntryCount, error) {
	rows, err := r.db.CountEntriesByCountry(ctx, category.Table())
	if err != nil {
		return nil, err
	}
	return lo.Map(rows, func(row repository.CountEntriesByCountryRow, _ int) models.CountryEntryCount {
		return models.CountryEntryCount{
			Country: countryFromRow(repository.Country{
				Code: row.Code, Name: row.Name, NameFr: row.NameFr, Region: row.Region,
			}),
			Entries: row.Entries,
		}
	}), nil
}

func (r *InfoRepository) Labels(ctx context.Context, category constants.Category) ([]models.LabelCount, error) {
	rows, err := r.db.CountLabels(ctx, category.Table())
	if err != nil {
		return nil, err
	}
	return lo.Map(rows, func(row repository.CountLabelsRow, _ int) models.LabelCount {
		return models.LabelCount{Label: row.Label, Count: row.Count}
	}), nil
}

func (r *InfoRepository) Sectors(ctx context.Context) ([]models.LabelCount, error) {
	rows, err := r.db.ListPopularSectors(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(rows, func(row repository.ListPopularSectorsRow, _ int) models.LabelCount {
		return models.LabelCount{Label: row.Sector, Count: row.Count}
	}), nil
}

func (r *InfoRepository) Cities(ctx context.Context, countryCode string) ([]models.CityCount, error) {
	rows, err := r.db.ListHousingCities(ctx, utils.TextFromString(countryCode))
	if err != nil {
		return nil, err
	}
	return lo.Map(rows, func(row repository.ListHousingCitiesRow, _ int) models.CityCount {
		return models.CityCount{City: row.City, CountryCode: row.CountryCode, Entries: row.Entries}
	}), nil
}

func (r *InfoRepository) EmergencyNumbers(ctx context.Context, countryCode string) (*models.EmergencyNumbers, error) {
	raw, err := r.db.GetEmergencyNumbers(ctx, countryCode)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var numbers models.EmergencyNumbers
	if err := utils.DecodeJSONColumn(raw, &numbers); err != nil {
		return nil, fmt.Errorf("decoding emergency numbers: %w", err)
	}
	if numbers.IsEmpty() {
		return nil, common.ErrNotFound
	}
	return &numbers, nil
}
