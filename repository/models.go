package repository

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Country struct {
	Code      string
	Name      string
	NameFr    pgtype.Text
	Region    pgtype.Text
	CreatedAt pgtype.Timestamptz
}

type VisaInfo struct {
	ID             int64
	CountryCode    string
	VisaType       string
	Title          string
	Description    pgtype.Text
	Requirements   []byte
	ProcessingTime pgtype.Text
	Cost           pgtype.Text
	Validity       pgtype.Text
	SourceUrl      string
	SourceName     string
	Language       string
	CreatedAt      pgtype.Timestamptz
	UpdatedAt      pgtype.Timestamptz
}

type JobInfo struct {
	ID                 int64
	CountryCode        string
	Category           string
	Title              string
	Description        pgtype.Text
	WorkPermitRequired pgtype.Bool
	AverageSalary      pgtype.Text
	JobSearchTips      []byte
	PopularSectors     []byte
	JobPortals         []byte
	SourceUrl          string
	SourceName         string
	Language           string
	CreatedAt          pgtype.Timestamptz
	UpdatedAt          pgtype.Timestamptz
}

type HousingInfo struct {
	ID                int64
	CountryCode       string
	City              pgtype.Text
	Category          string
	Title             string
	Description       pgtype.Text
	AverageRent       pgtype.Text
	RequiredDocuments []byte
	Tips              []byte
	RentalPlatforms   []byte
	SourceUrl         string
	SourceName        string
	Language          string
	CreatedAt         pgtype.Timestamptz
	UpdatedAt         pgtype.Timestamptz
}

type HealthcareInfo struct {
	ID                    int64
	CountryCode           string
	Category              string
	Title                 string
	Description           pgtype.Text
	PublicSystemInfo      pgtype.Text
	InsuranceRequirements []byte
	EmergencyNumbers      []byte
	UsefulLinks           []byte
	SourceUrl             string
	SourceName            string
	Language              string
	CreatedAt             pgtype.Timestamptz
	UpdatedAt             pgtype.Timestamptz
}

type BankingInfo struct {
	ID                  int64
	CountryCode         string
	Category            string
	Title               string
	Description         pgtype.Text
	AccountRequirements []byte
	RecommendedBanks    []byte
	Tips                []byte
	SourceUrl           string
	SourceName          string
	Language            string
	CreatedAt           pgtype.Timestamptz
	UpdatedAt           pgtype.Timestamptz
}

type ScrapeLog struct {
	ID           int64
	SourceName   string
	SourceUrl    string
	Status       string
	ItemsScraped int32
	ErrorMessage pgtype.Text
	StartedAt    pgtype.Timestamptz
	CompletedAt  pgtype.Timestamptz
}
