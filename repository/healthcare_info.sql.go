package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const createHealthcareInfo = `-- name: CreateHealthcareInfo :one
INSERT INTO healthcare_info (
    country_code, category, title, description, public_system_info,
    insurance_requirements, emergency_numbers, useful_links, source_url, source_name, language
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
)
RETURNING id
`

type CreateHealthcareInfoParams struct {
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
}

func (q *Queries) CreateHealthcareInfo(ctx context.Context, arg CreateHealthcareInfoParams) (int64, error) {
	row := q.db.QueryRow(ctx, createHealthcareInfo,
		arg.CountryCode,
		arg.Category,
		arg.Title,
		arg.Description,
		arg.PublicSystemInfo,
		arg.InsuranceRequirements,
		arg.EmergencyNumbers,
		arg.UsefulLinks,
		arg.SourceUrl,
		arg.SourceName,
		arg.Language,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const updateHealthcareInfoByKey = `-- name: UpdateHealthcareInfoByKey :one
UPDATE healthcare_info SET
    category = $4, description = $5, public_system_info = $6, insurance_requirements = $7,
    emergency_numbers = $8, useful_links = $9, source_name = $10, language = $11,
    updated_at = now()
WHERE id = (
    SELECT id FROM healthcare_info
    WHERE country_code = $1 AND source_url = $2 AND title = $3
    ORDER BY id DESC
    LIMIT 1
)
RETURNING id
`

func (q *Queries) UpdateHealthcareInfoByKey(ctx context.Context, arg CreateHealthcareInfoParams) (int64, error) {
	row := q.db.QueryRow(ctx, updateHealthcareInfoByKey,
		arg.CountryCode,
		arg.SourceUrl,
		arg.Title,
		arg.Category,
		arg.Description,
		arg.PublicSystemInfo,
		arg.InsuranceRequirements,
		arg.EmergencyNumbers,
		arg.UsefulLinks,
		arg.SourceName,
		arg.Language,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const listHealthcareInfo = `-- name: ListHealthcareInfo :many
SELECT id, country_code, category, title, description, public_system_info,
    insurance_requirements, emergency_numbers, useful_links, source_url, source_name,
    language, created_at, updated_at
FROM healthcare_info
WHERE ($1::text IS NULL OR country_code = $1)
    AND ($2::text IS NULL OR category = $2)
    AND ($3::text IS NULL OR language = $3)
ORDER BY updated_at DESC, id DESC
LIMIT $4
`

type ListHealthcareInfoParams struct {
	CountryCode pgtype.Text
	Category    pgtype.Text
	Language    pgtype.Text
	Limit       pgtype.Int4
}

func (q *Queries) ListHealthcareInfo(ctx context.Context, arg ListHealthcareInfoParams) ([]HealthcareInfo, error) {
	rows, err := q.db.Query(ctx, listHealthcareInfo,
		arg.CountryCode,
		arg.Category,
		arg.Language,
		arg.Limit,
	)
	if err != nil {
		return nil, err
	}
	return scanHealthcareInfo(rows)
}

const listHealthcareInfoByCountry = `-- name: ListHealthcareInfoByCountry :many
SELECT id, country_code, category, title, description, public_system_info,
    insurance_requirements, emergency_numbers, useful_links, source_url, source_name,
    language, created_at, updated_at
FROM healthcare_info
WHERE country_code = $1
    AND ($2::text IS NULL OR category = $2)
ORDER BY category, updated_at DESC, id DESC
`

type ListHealthcareInfoByCountryParams struct {
	CountryCode string
	Category    pgtype.Text
}

func (q *Queries) ListHealthcareInfoByCountry(ctx context.Context, arg ListHealthcareInfoByCountryParams) ([]HealthcareInfo, error) {
	rows, err := q.db.Query(ctx, listHealthcareInfoByCountry, arg.CountryCode, arg.Category)
	if err != nil {
		return nil, err
	}
	return scanHealthcareInfo(rows)
}

const getEmergencyNumbers = `-- name: GetEmergencyNumbers :one
SELECT emergency_numbers FROM healthcare_info
WHERE country_code = $1 AND emergency_numbers IS NOT NULL
ORDER BY updated_at DESC, id DESC
LIMIT 1
`

func (q *Queries) GetEmergencyNumbers(ctx context.Context, countryCode string) ([]byte, error) {
	row := q.db.QueryRow(ctx, getEmergencyNumbers, countryCode)
	var emergencyNumbers []byte
	err := row.Scan(&emergencyNumbers)
	return emergencyNumbers, err
}

func scanHealthcareInfo(rows pgx.Rows) ([]HealthcareInfo, error) {
	defer rows.Close()
	var items []HealthcareInfo
	for rows.Next() {
		var i HealthcareInfo
		if err := rows.Scan(
			&i.ID,
			&i.CountryCode,
			&i.Category,
			&i.Title,
			&i.Description,
			&i.PublicSystemInfo,
			&i.InsuranceRequirements,
			&i.EmergencyNumbers,
			&i.UsefulLinks,
			&i.SourceUrl,
			&i.SourceName,
			&i.Language,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
