package models

import (
	"time"

	"github.com/bpresles/CasaNova/common/constants"
	"github.com/samber/mo"
)

// Record is one extracted entry of any category.
type Record interface {
	InfoCategory() constants.Category
	Base() *InfoBase
	// Label is the classification label (visa_type for visas, category otherwise).
	Label() string
}

// InfoBase carries the fields every category shares.
type InfoBase struct {
	ID          int64             `json:"id,omitempty"`
	CountryCode string            `json:"country_code"`
	Title       string            `json:"title"`
	Description mo.Option[string] `json:"description"`
	SourceURL   string            `json:"source_url"`
	SourceName  string            `json:"source_name"`
	Language    string            `json:"language"`
	CreatedAt   *time.Time        `json:"created_at,omitempty"`
	UpdatedAt   *time.Time        `json:"updated_at,omitempty"`
}

func (b *InfoBase) Base() *InfoBase {
	return b
}

type Link struct {
	Name mo.Option[string] `json:"name"`
	URL  string            `json:"url"`
}

type VisaInfo struct {
	InfoBase
	VisaType       string            `json:"visa_type"`
	Requirements   List[string]      `json:"requirements"`
	ProcessingTime mo.Option[string] `json:"processing_time"`
	Cost           mo.Option[string] `json:"cost"`
	Validity       mo.Option[string] `json:"validity"`
}

func (v *VisaInfo) InfoCategory() constants.Category { return constants.Visa }
func (v *VisaInfo) Label() string                    { return v.VisaType }

type JobInfo struct {
	InfoBase
	Category           string            `json:"category"`
	WorkPermitRequired mo.Option[bool]   `json:"work_permit_required"`
	AverageSalary      mo.Option[string] `json:"average_salary"`
	JobSearchTips      List[string]      `json:"job_search_tips"`
	PopularSectors     List[string]      `json:"popular_sectors"`
	JobPortals         List[Link]        `json:"job_portals"`
}

func (j *JobInfo) InfoCategory() constants.Category { return constants.Job }
func (j *JobInfo) Label() string                    { return j.Category }

type HousingInfo struct {
	InfoBase
	City              mo.Option[string] `json:"city"`
	Category          string            `json:"category"`
	AverageRent       mo.Option[string] `json:"average_rent"`
	RequiredDocuments List[string]      `json:"required_documents"`
	Tips              List[string]      `json:"tips"`
	RentalPlatforms   List[Link]        `json:"rental_platforms"`
}

func (h *HousingInfo) InfoCategory() constants.Category { return constants.Housing }
func (h *HousingInfo) Label() string                    { return h.Category }

type HealthcareInfo struct {
	InfoBase
	Category              string            `json:"category"`
	PublicSystemInfo      mo.Option[string] `json:"public_system_info"`
	InsuranceRequirements List[string]      `json:"insurance_requirements"`
	EmergencyNumbers      *EmergencyNumbers `json:"emergency_numbers"`
	UsefulLinks           List[Link]        `json:"useful_links"`
}

func (h *HealthcareInfo) InfoCategory() constants.Category { return constants.Healthcare }
func (h *HealthcareInfo) Label() string                    { return h.Category }

type BankingInfo struct {
	InfoBase
	Category            string       `json:"category"`
	AccountRequirements List[string] `json:"account_requirements"`
	RecommendedBanks    List[string] `json:"recommended_banks"`
	Tips                List[string] `json:"tips"`
}

func (b *BankingInfo) InfoCategory() constants.Category { return constants.Banking }
func (b *BankingInfo) Label() string                    { return b.Category }

// ScrapeResult is the per-country outcome of a bulk run.
type ScrapeResult struct {
	Country string `json:"country"`
	Count   int    `json:"count"`
}

// CategorySummary aggregates a bulk run over one category.
type CategorySummary struct {
	Category  constants.Category `json:"category"`
	Countries []ScrapeResult     `json:"countries"`
	Total     int                `json:"total"`
	Err       string             `json:"error,omitempty"`
}
