package services

import (
	"context"

	"github.com/bpresles/CasaNova/common/constants"
	"github.com/bpresles/CasaNova/common/models"
)

// InfoFilter narrows a category listing. Empty fields do not filter.
type InfoFilter struct {
	CountryCode string
	// Label is the visa type for visas and the category otherwise.
	Label    string
	Language string
	// City is a case-insensitive substring; housing only.
	City string
	// Limit <= 0 means no limit.
	Limit int
}

// InfoService defines the read operations on stored records
type InfoService interface {
	// List returns records of a category, most recently updated first
	List(ctx context.Context, category constants.Category, filter InfoFilter) ([]models.Record, error)

	// ListByCountry returns a country's records grouped by label (housing: by city, then category)
	ListByCountry(ctx context.Context, category constants.Category, filter InfoFilter) ([]models.Record, error)

	// CountriesWithEntries returns every country with its record count for the category
	CountriesWithEntries(ctx context.Context, category constants.Category) ([]models.CountryEntryCount, error)

	// Labels counts records per label, most frequent first
	Labels(ctx context.Context, category constants.Category) ([]models.LabelCount, error)

	// Sectors counts popular job sectors across every job record
	Sectors(ctx context.Context) ([]models.LabelCount, error)

	// Cities lists housing cities with their record count
	Cities(ctx context.Context, countryCode string) ([]models.CityCount, error)

	// EmergencyNumbers returns the most recent emergency numbers stored for a country
	EmergencyNumbers(ctx context.Context, countryCode string) (*models.EmergencyNumbers, error)
}

// CountryService defines the read operations on countries
type CountryService interface {
	// List returns countries ordered by name, optionally within a region
	List(ctx context.Context, region string) ([]models.Country, error)

	// Regions lists regions with their country count
	Regions(ctx context.Context) ([]models.RegionCount, error)

	// Get returns one country or common.ErrNotFound
	Get(ctx context.Context, code string) (models.Country, error)

	// Detail adds per-category record counts and endpoints to a country
	Detail(ctx context.Context, code string) (models.CountryDetail, error)

	// Summary returns the latest records of every category for a country
	Summary(ctx context.Context, code string) (models.CountrySummary, error)
}
