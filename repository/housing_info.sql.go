package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const createHousingInfo = `-- name: CreateHousingInfo :one
INSERT INTO housing_info (
    country_code, city, category, title, description, average_rent,
    required_documents, tips, rental_platforms, source_url, source_name, language
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
)
RETURNING id
`

type CreateHousingInfoParams struct {
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
}

func (q *Queries) CreateHousingInfo(ctx context.Context, arg CreateHousingInfoParams) (int64, error) {
	row := q.db.QueryRow(ctx, createHousingInfo,
		arg.CountryCode,
		arg.City,
		arg.Category,
		arg.Title,
		arg.Description,
		arg.AverageRent,
		arg.RequiredDocuments,
		arg.Tips,
		arg.RentalPlatforms,
		arg.SourceUrl,
		arg.SourceName,
		arg.Language,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const updateHousingInfoByKey = `-- name: UpdateHousingInfoByKey :one
UPDATE housing_info SET
    city = $4, category = $5, description = $6, average_rent = $7, required_documents = $8,
    tips = $9, rental_platforms = $10, source_name = $11, language = $12, updated_at = now()
WHERE id = (
    SELECT id FROM housing_info
    WHERE country_code = $1 AND source_url = $2 AND title = $3
    ORDER BY id DESC
    LIMIT 1
)
RETURNING id
`

func (q *Queries) UpdateHousingInfoByKey(ctx context.Context, arg CreateHousingInfoParams) (int64, error) {
	row := q.db.QueryRow(ctx, updateHousingInfoByKey,
		arg.CountryCode,
		arg.SourceUrl,
		arg.Title,
		arg.City,
		arg.Category,
		arg.Description,
		arg.AverageRent,
		arg.RequiredDocuments,
		arg.Tips,
		arg.RentalPlatforms,
		arg.SourceName,
		arg.Language,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const listHousingInfo = `-- name: ListHousingInfo :many
SELECT id, country_code, city, category, title, description, average_rent,
    required_documents, tips, rental_platforms, source_url, source_name, language,
    created_at, updated_at
FROM housing_info
WHERE ($1::text IS NULL OR country_code = $1)
    AND ($2::text IS NULL OR city ILIKE '%' || $2 || '%')
    AND ($3::text IS NULL OR category = $3)
    AND ($4::text IS NULL OR language = $4)
ORDER BY updated_at DESC, id DESC
LIMIT $5
`

type ListHousingInfoParams struct {
	CountryCode pgtype.Text
	// Substring match, case-insensitive.
	City     pgtype.Text
	Category pgtype.Text
	Language pgtype.Text
	Limit    pgtype.Int4
}

func (q *Queries) ListHousingInfo(ctx context.Context, arg ListHousingInfoParams) ([]HousingInfo, error) {
	rows, err := q.db.Query(ctx, listHousingInfo,
		arg.CountryCode,
		arg.City,
		arg.Category,
		arg.Language,
		arg.Limit,
	)
	if err != nil {
		return nil, err
	}
	return scanHousingInfo(rows)
}

const listHousingInfoByCountry = `-- name: ListHousingInfoByCountry :many
SELECT id, country_code, city, category, title, description, average_rent,
    required_documents, tips, rental_platforms, source_url, source_name, language,
    created_at, updated_at
FROM housing_info
WHERE country_code = $1
    AND ($2::text IS NULL OR city ILIKE '%' || $2 || '%')
    AND ($3::text IS NULL OR category = $3)
ORDER BY city, category, updated_at DESC, id DESC
`

type ListHousingInfoByCountryParams struct {
	CountryCode string
	City        pgtype.Text
	Category    pgtype.Text
}

func (q *Queries) ListHousingInfoByCountry(ctx context.Context, arg ListHousingInfoByCountryParams) ([]HousingInfo, error) {
	rows, err := q.db.Query(ctx, listHousingInfoByCountry, arg.CountryCode, arg.City, arg.Category)
	if err != nil {
		return nil, err
	}
	return scanHousingInfo(rows)
}

const listHousingCities = `-- name: ListHousingCities :many
SELECT city, country_code, COUNT(*) AS entries
FROM housing_info
WHERE city IS NOT NULL
    AND ($1::text IS NULL OR country_code = $1)
GROUP BY city, country_code
ORDER BY entries DESC, city
`

type ListHousingCitiesRow struct {
	City        string
	CountryCode string
	Entries     int64
}

func (q *Queries) ListHousingCities(ctx context.Context, countryCode pgtype.Text) ([]ListHousingCitiesRow, error) {
	rows, err := q.db.Query(ctx, listHousingCities, countryCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListHousingCitiesRow
	for rows.Next() {
		var i ListHousingCitiesRow
		if err := rows.Scan(&i.City, &i.CountryCode, &i.Entries); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanHousingInfo(rows pgx.Rows) ([]HousingInfo, error) {
	defer rows.Close()
	var items []HousingInfo
	for rows.Next() {
		var i HousingInfo
		if err := rows.Scan(
			&i.ID,
			&i.CountryCode,
			&i.City,
			&i.Category,
			&i.Title,
			&i.Description,
			&i.AverageRent,
			&i.RequiredDocuments,
			&i.Tips,
			&i.RentalPlatforms,
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
