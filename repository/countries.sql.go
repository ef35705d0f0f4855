package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const getCountry = `-- name: GetCountry :one
SELECT code, name, name_fr, region, created_at FROM countries
WHERE code = $1
`

func (q *Queries) GetCountry(ctx context.Context, code string) (Country, error) {
	row := q.db.QueryRow(ctx, getCountry, code)
	var i Country
	err := row.Scan(
		&i.Code,
		&i.Name,
		&i.NameFr,
		&i.Region,
		&i.CreatedAt,
	)
	return i, err
}

const listCountries = `-- name: ListCountries :many
SELECT code, name, name_fr, region, created_at FROM countries
WHERE ($1::text IS NULL OR region = $1)
ORDER BY name
`

func (q *Queries) ListCountries(ctx context.Context, region pgtype.Text) ([]Country, error) {
	rows, err := q.db.Query(ctx, listCountries, region)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Country
	for rows.Next() {
		var i Country
		if err := rows.Scan(
			&i.Code,
			&i.Name,
			&i.NameFr,
			&i.Region,
			&i.CreatedAt,
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

const listCountryCodes = `-- name: ListCountryCodes :many
SELECT code FROM countries
ORDER BY code
`

func (q *Queries) ListCountryCodes(ctx context.Context) ([]string, error) {
	rows, err := q.db.Query(ctx, listCountryCodes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		items = append(items, code)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listRegions = `-- name: ListRegions :many
SELECT region, COUNT(*) AS country_count FROM countries
WHERE region IS NOT NULL
GROUP BY region
ORDER BY region
`

type ListRegionsRow struct {
	Region       string
	CountryCount int64
}

func (q *Queries) ListRegions(ctx context.Context) ([]ListRegionsRow, error) {
	rows, err := q.db.Query(ctx, listRegions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListRegionsRow
	for rows.Next() {
		var i ListRegionsRow
		if err := rows.Scan(&i.Region, &i.CountryCount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
