package services

import (
	"fmt"

	"github.com/bpresles/CasaNova/common/models"
	"github.com/bpresles/CasaNova/common/utils"
	"github.com/bpresles/CasaNova/repository"
	"github.com/jackc/pgx/v5/pgtype"
)

// Model to params.

func visaParams(v *models.VisaInfo) (repository.CreateVisaInfoParams, error) {
	requirements, err := v.Requirements.Column()
	if err != nil {
		return repository.CreateVisaInfoParams{}, fmt.Errorf("encoding requirements: %w", err)
	}
	return repository.CreateVisaInfoParams{
		CountryCode:    v.CountryCode,
		VisaType:       v.VisaType,
		Title:          v.Title,
		Description:    utils.TextFromOption(v.Description),
		Requirements:   requirements,
		ProcessingTime: utils.TextFromOption(v.ProcessingTime),
		Cost:           utils.TextFromOption(v.Cost),
		Validity:       utils.TextFromOption(v.Validity),
		SourceUrl:      v.SourceURL,
		SourceName:     v.SourceName,
		Language:       v.Language,
	}, nil
}

func jobParams(j *models.JobInfo) (repository.CreateJobInfoParams, error) {
	tips, err := j.JobSearchTips.Column()
	if err != nil {
		return repository.CreateJobInfoParams{}, fmt.Errorf("encoding job search tips: %w", err)
	}
	sectors, err := j.PopularSectors.Column()
	if err != nil {
		return repository.CreateJobInfoParams{}, fmt.Errorf("encoding popular sectors: %w", err)
	}
	portals, err := j.JobPortals.Column()
	if err != nil {
		return repository.CreateJobInfoParams{}, fmt.Errorf("encoding job portals: %w", err)
	}
	return repository.CreateJobInfoParams{
		CountryCode:        j.CountryCode,
		Category:           j.Category,
		Title:              j.Title,
		Description:        utils.TextFromOption(j.Description),
		WorkPermitRequired: utils.BoolFromOption(j.WorkPermitRequired),
		AverageSalary:      utils.TextFromOption(j.AverageSalary),
		JobSearchTips:      tips,
		PopularSectors:     sectors,
		JobPortals:         portals,
		SourceUrl:          j.SourceURL,
		SourceName:         j.SourceName,
		Language:           j.Language,
	}, nil
}

func housingParams(h *models.HousingInfo) (repository.CreateHousingInfoParams, error) {
	documents, err := h.RequiredDocuments.Column()
	if err != nil {
		return repository.CreateHousingInfoParams{}, fmt.Errorf("encoding required documents: %w", err)
	}
	tips, err := h.Tips.Column()
	if err != nil {
		return repository.CreateHousingInfoParams{}, fmt.Errorf("encoding tips: %w", err)
	}
	platforms, err := h.RentalPlatforms.Column()
	if err != nil {
		return repository.CreateHousingInfoParams{}, fmt.Errorf("encoding rental platforms: %w", err)
	}
	return repository.CreateHousingInfoParams{
		CountryCode:       h.CountryCode,
		City:              utils.TextFromOption(h.City),
		Category:          h.Category,
		Title:             h.Title,
		Description:       utils.TextFromOption(h.Description),
		AverageRent:       utils.TextFromOption(h.AverageRent),
		RequiredDocuments: documents,
		Tips:              tips,
		RentalPlatforms:   platforms,
		SourceUrl:         h.SourceURL,
		SourceName:        h.SourceName,
		Language:          h.Language,
	}, nil
}

func healthcareParams(h *models.HealthcareInfo) (repository.CreateHealthcareInfoParams, error) {
	insurance, err := h.InsuranceRequirements.Column()
	if err != nil {
		return repository.CreateHealthcareInfoParams{}, fmt.Errorf("encoding insurance requirements: %w", err)
	}
	emergency, err := h.EmergencyNumbers.Column()
	if err != nil {
		return repository.CreateHealthcareInfoParams{}, fmt.Errorf("encoding emergency numbers: %w", err)
	}
	links, err := h.UsefulLinks.Column()
	if err != nil {
		return repository.CreateHealthcareInfoParams{}, fmt.Errorf("encoding useful links: %w", err)
	}
	return repository.CreateHealthcareInfoParams{
		CountryCode:           h.CountryCode,
		Category:              h.Category,
		Title:                 h.Title,
		Description:           utils.TextFromOption(h.Description),
		PublicSystemInfo:      utils.TextFromOption(h.PublicSystemInfo),
		InsuranceRequirements: insurance,
		EmergencyNumbers:      emergency,
		UsefulLinks:           links,
		SourceUrl:             h.SourceURL,
		SourceName:            h.SourceName,
		Language:              h.Language,
	}, nil
}

func bankingParams(b *models.BankingInfo) (repository.CreateBankingInfoParams, error) {
	requirements, err := b.AccountRequirements.Column()
	if err != nil {
		return repository.CreateBankingInfoParams{}, fmt.Errorf("encoding account requirements: %w", err)
	}
	banks, err := b.RecommendedBanks.Column()
	if err != nil {
		return repository.CreateBankingInfoParams{}, fmt.Errorf("encoding recommended banks: %w", err)
	}
	tips, err := b.Tips.Column()
	if err != nil {
		return repository.CreateBankingInfoParams{}, fmt.Errorf("encoding tips: %w", err)
	}
	return repository.CreateBankingInfoParams{
		CountryCode:         b.CountryCode,
		Category:            b.Category,
		Title:               b.Title,
		Description:         utils.TextFromOption(b.Description),
		AccountRequirements: requirements,
		RecommendedBanks:    banks,
		Tips:                tips,
		SourceUrl:           b.SourceURL,
		SourceName:          b.SourceName,
		Language:            b.Language,
	}, nil
}

// Row to model.

func infoBase(id int64, code, title string, description pgtype.Text, sourceURL, sourceName, language string, created, updated pgtype.Timestamptz) models.InfoBase {
	return models.InfoBase{
		ID:          id,
		CountryCode: code,
		Title:       title,
		Description: utils.OptionFromText(description),
		SourceURL:   sourceURL,
		SourceName:  sourceName,
		Language:    language,
		CreatedAt:   utils.TimePtr(created),
		UpdatedAt:   utils.TimePtr(updated),
	}
}

func visaFromRow(r repository.VisaInfo) (*models.VisaInfo, error) {
	v := &models.VisaInfo{
		InfoBase:       infoBase(r.ID, r.CountryCode, r.Title, r.Description, r.SourceUrl, r.SourceName, r.Language, r.CreatedAt, r.UpdatedAt),
		VisaType:       r.VisaType,
		ProcessingTime: utils.OptionFromText(r.ProcessingTime),
		Cost:           utils.OptionFromText(r.Cost),
		Validity:       utils.OptionFromText(r.Validity),
	}
	if err := utils.DecodeJSONColumn(r.Requirements, &v.Requirements); err != nil {
		return nil, fmt.Errorf("decoding visa %d requirements: %w", r.ID, err)
	}
	return v, nil
}

func jobFromRow(r repository.JobInfo) (*models.JobInfo, error) {
	j := &models.JobInfo{
		InfoBase:           infoBase(r.ID, r.CountryCode, r.Title, r.Description, r.SourceUrl, r.SourceName, r.Language, r.CreatedAt, r.UpdatedAt),
		Category:           r.Category,
		WorkPermitRequired: utils.OptionFromBool(r.WorkPermitRequired),
		AverageSalary:      utils.OptionFromText(r.AverageSalary),
	}
	if err := utils.DecodeJSONColumn(r.JobSearchTips, &j.JobSearchTips); err != nil {
		return nil, fmt.Errorf("decoding job %d tips: %w", r.ID, err)
	}
	if err := utils.DecodeJSONColumn(r.PopularSectors, &j.PopularSectors); err != nil {
		return nil, fmt.Errorf("decoding job %d sectors: %w", r.ID, err)
	}
	if err := utils.DecodeJSONColumn(r.JobPortals, &j.JobPortals); err != nil {
		return nil, fmt.Errorf("decoding job %d portals: %w", r.ID, err)
	}
	return j, nil
}

func housingFromRow(r repository.HousingInfo) (*models.HousingInfo, error) {
	h := &models.HousingInfo{
		InfoBase:    infoBase(r.ID, r.CountryCode, r.Title, r.Description, r.SourceUrl, r.SourceName, r.Language, r.CreatedAt, r.UpdatedAt),
		City:        utils.OptionFromText(r.City),
		Category:    r.Category,
		AverageRent: utils.OptionFromText(r.AverageRent),
	}
	if err := utils.DecodeJSONColumn(r.RequiredDocuments, &h.RequiredDocuments); err != nil {
		return nil, fmt.Errorf("decoding housing %d documents: %w", r.ID, err)
	}
	if err := utils.DecodeJSONColumn(r.Tips, &h.Tips); err != nil {
		return nil, fmt.Errorf("decoding housing %d tips: %w", r.ID, err)
	}
	if err := utils.DecodeJSONColumn(r.RentalPlatforms, &h.RentalPlatforms); err != nil {
		return nil, fmt.Errorf("decoding housing %d platforms: %w", r.ID, err)
	}
	return h, nil
}

func healthcareFromRow(r repository.HealthcareInfo) (*models.HealthcareInfo, error) {
	h := &models.HealthcareInfo{
		InfoBase:         infoBase(r.ID, r.CountryCode, r.Title, r.Description, r.SourceUrl, r.SourceName, r.Language, r.CreatedAt, r.UpdatedAt),
		Category:         r.Category,
		PublicSystemInfo: utils.OptionFromText(r.PublicSystemInfo),
	}
	if err := utils.DecodeJSONColumn(r.InsuranceRequirements, &h.InsuranceRequirements); err != nil {
		return nil, fmt.Errorf("decoding healthcare %d insurance: %w", r.ID, err)
	}
	if len(r.EmergencyNumbers) > 0 {
		var numbers models.EmergencyNumbers
		if err := utils.DecodeJSONColumn(r.EmergencyNumbers, &numbers); err != nil {
			return nil, fmt.Errorf("decoding healthcare %d emergency numbers: %w", r.ID, err)
		}
		if !numbers.IsEmpty() {
			h.EmergencyNumbers = &numbers
		}
	}
	if err := utils.DecodeJSONColumn(r.UsefulLinks, &h.UsefulLinks); err != nil {
		return nil, fmt.Errorf("decoding healthcare %d links: %w", r.ID, err)
	}
	return h, nil
}

func bankingFromRow(r repository.BankingInfo) (*models.BankingInfo, error) {
	b := &models.BankingInfo{
		InfoBase: infoBase(r.ID, r.CountryCode, r.Title, r.Description, r.SourceUrl, r.SourceName, r.Language, r.CreatedAt, r.UpdatedAt),
		Category: r.Category,
	}
	if err := utils.DecodeJSONColumn(r.AccountRequirements, &b.AccountRequirements); err != nil {
		return nil, fmt.Errorf("decoding banking %d requirements: %w", r.ID, err)
	}
	if err := utils.DecodeJSONColumn(r.RecommendedBanks, &b.RecommendedBanks); err != nil {
		return nil, fmt.Errorf("decoding banking %d banks: %w", r.ID, err)
	}
	if err := utils.DecodeJSONColumn(r.Tips, &b.Tips); err != nil {
		return nil, fmt.Errorf("decoding banking %d tips: %w", r.ID, err)
	}
	return b, nil
}

// recordsFromRows converts rows with conv, keeping the row order.
func recordsFromRows[R any, M models.Record](rows []R, conv func(R) (M, error)) ([]models.Record, error) {
	out := make([]models.Record, 0, len(rows))
	for _, r := range rows {
		m, err := conv(r)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func countryFromRow(r repository.Country) models.Country {
	return models.Country{
		Code:   r.Code,
		Name:   r.Name,
		NameFr: utils.OptionFromText(r.NameFr),
		Region: utils.OptionFromText(r.Region),
	}
}
