package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const createVisaInfo = `-- name: CreateVisaInfo :one
INSERT INTO visa_info (
    country_code, visa_type, title, description, requirements,
    processing_time, cost, validity, source_url, source_name, language
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
)
RETURNING id
`

type CreateVisaInfoParams struct {
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
}

func (q *Queries) CreateVisaInfo(ctx context.Context, arg CreateVisaInfoParams) (int64, error) {
	row := q.db.QueryRow(ctx, createVisaInfo,
		arg.CountryCode,
		arg.VisaType,
		arg.Title,
		arg.Description,
		arg.Requirements,
		arg.ProcessingTime,
		arg.Cost,
		arg.Validity,
		arg.SourceUrl,
		arg.SourceName,
		arg.Language,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const updateVisaInfoByKey = `-- name: UpdateVisaInfoByKey :one
UPDATE visa_info SET
    visa_type = $4, description = $5, requirements = $6, processing_time = $7,
    cost = $8, validity = $9, source_name = $10, language = $11, updated_at = now()
WHERE id = (
    SELECT id FROM visa_info
    WHERE country_code = $1 AND source_url = $2 AND title = $3
    ORDER BY id DESC
    LIMIT 1
)
RETURNING id
`

// UpdateVisaInfoByKey returns pgx.ErrNoRows when no record has the key.
func (q *Queries) UpdateVisaInfoByKey(ctx context.Context, arg CreateVisaInfoParams) (int64, error) {
	row := q.db.QueryRow(ctx, updateVisaInfoByKey,
		arg.CountryCode,
		arg.SourceUrl,
		arg.Title,
		arg.VisaType,
		arg.Description,
		arg.Requirements,
		arg.ProcessingTime,
		arg.Cost,
		arg.Validity,
		arg.SourceName,
		arg.Language,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const listVisaInfo = `-- name: ListVisaInfo :many
SELECT id, country_code, visa_type, title, description, requirements, processing_time,
    cost, validity, source_url, source_name, language, created_at, updated_at
FROM visa_info
WHERE ($1::text IS NULL OR country_code = $1)
    AND ($2::text IS NULL OR visa_type = $2)
    AND ($3::text IS NULL OR language = $3)
ORDER BY updated_at DESC, id DESC
LIMIT $4
`

type ListVisaInfoParams struct {
	CountryCode pgtype.Text
	VisaType    pgtype.Text
	Language    pgtype.Text
	// NULL means no limit.
	Limit pgtype.Int4
}

func (q *Queries) ListVisaInfo(ctx context.Context, arg ListVisaInfoParams) ([]VisaInfo, error) {
	rows, err := q.db.Query(ctx, listVisaInfo,
		arg.CountryCode,
		arg.VisaType,
		arg.Language,
		arg.Limit,
	)
	if err != nil {
		return nil, err
	}
	return scanVisaInfo(rows)
}

const listVisaInfoByCountry = `-- name: ListVisaInfoByCountry :many
SELECT id, country_code, visa_type, title, description, requirements, processing_time,
    cost, validity, source_url, source_name, language, created_at, updated_at
FROM visa_info
WHERE country_code = $1
    AND ($2::text IS NULL OR visa_type = $2)
ORDER BY visa_type, updated_at DESC, id DESC
`

type ListVisaInfoByCountryParams struct {
	CountryCode string
	VisaType    pgtype.Text
}

func (q *Queries) ListVisaInfoByCountry(ctx context.Context, arg ListVisaInfoByCountryParams) ([]VisaInfo, error) {
	rows, err := q.db.Query(ctx, listVisaInfoByCountry, arg.CountryCode, arg.VisaType)
	if err != nil {
		return nil, err
	}
	return scanVisaInfo(rows)
}

func scanVisaInfo(rows pgx.Rows) ([]VisaInfo, error) {
	defer rows.Close()
	var items []VisaInfo
	for rows.Next() {
		var i VisaInfo
		if err := rows.Scan(
			&i.ID,
			&i.CountryCode,
			&i.VisaType,
			&i.Title,
			&i.Description,
			&i.Requirements,
			&i.ProcessingTime,
			&i.Cost,
			&i.Validity,
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
