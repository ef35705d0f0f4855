package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const createJobInfo = `-- name: CreateJobInfo :one
INSERT INTO job_info (
    country_code, category, title, description, work_permit_required, average_salary,
    job_search_tips, popular_sectors, job_portals, source_url, source_name, language
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
)
RETURNING id
`

type CreateJobInfoParams struct {
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
}

func (q *Queries) CreateJobInfo(ctx context.Context, arg CreateJobInfoParams) (int64, error) {
	row := q.db.QueryRow(ctx, createJobInfo,
		arg.CountryCode,
		arg.Category,
		arg.Title,
		arg.Description,
		arg.WorkPermitRequired,
		arg.AverageSalary,
		arg.JobSearchTips,
		arg.PopularSectors,
		arg.JobPortals,
		arg.SourceUrl,
		arg.SourceName,
		arg.Language,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const updateJobInfoByKey = `-- name: UpdateJobInfoByKey :one
UPDATE job_info SET
    category = $4, description = $5, work_permit_required = $6, average_salary = $7,
    job_search_tips = $8, popular_sectors = $9, job_portals = $10, source_name = $11,
    language = $12, updated_at = now()
WHERE id = (
    SELECT id FROM job_info
    WHERE country_code = $1 AND source_url = $2 AND title = $3
    ORDER BY id DESC
    LIMIT 1
)
RETURNING id
`

func (q *Queries) UpdateJobInfoByKey(ctx context.Context, arg CreateJobInfoParams) (int64, error) {
	row := q.db.QueryRow(ctx, updateJobInfoByKey,
		arg.CountryCode,
		arg.SourceUrl,
		arg.Title,
		arg.Category,
		arg.Description,
		arg.WorkPermitRequired,
		arg.AverageSalary,
		arg.JobSearchTips,
		arg.PopularSectors,
		arg.JobPortals,
		arg.SourceName,
		arg.Language,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const listJobInfo = `-- name: ListJobInfo :many
SELECT id, country_code, category, title, description, work_permit_required, average_salary,
    job_search_tips, popular_sectors, job_portals, source_url, source_name, language,
    created_at, updated_at
FROM job_info
WHERE ($1::text IS NULL OR country_code = $1)
    AND ($2::text IS NULL OR category = $2)
    AND ($3::text IS NULL OR language = $3)
ORDER BY updated_at DESC, id DESC
LIMIT $4
`

type ListJobInfoParams struct {
	CountryCode pgtype.Text
	Category    pgtype.Text
	Language    pgtype.Text
	Limit       pgtype.Int4
}

func (q *Queries) ListJobInfo(ctx context.Context, arg ListJobInfoParams) ([]JobInfo, error) {
	rows, err := q.db.Query(ctx, listJobInfo,
		arg.CountryCode,
		arg.Category,
		arg.Language,
		arg.Limit,
	)
	if err != nil {
		return nil, err
	}
	return scanJobInfo(rows)
}

const listJobInfoByCountry = `-- name: ListJobInfoByCountry :many
SELECT id, country_code, category, title, description, work_permit_required, average_salary,
    job_search_tips, popular_sectors, job_portals, source_url, source_name, language,
    created_at, updated_at
FROM job_info
WHERE country_code = $1
    AND ($2::text IS NULL OR category = $2)
ORDER BY category, updated_at DESC, id DESC
`

type ListJobInfoByCountryParams struct {
	CountryCode string
	Category    pgtype.Text
}

func (q *Queries) ListJobInfoByCountry(ctx context.Context, arg ListJobInfoByCountryParams) ([]JobInfo, error) {
	rows, err := q.db.Query(ctx, listJobInfoByCountry, arg.CountryCode, arg.Category)
	if err != nil {
		return nil, err
	}
	return scanJobInfo(rows)
}

const listPopularSectors = `-- name: ListPopularSectors :many
SELECT sector, COUNT(*) AS count
FROM job_info, jsonb_array_elements_text(popular_sectors) AS sector
WHERE popular_sectors IS NOT NULL
GROUP BY sector
ORDER BY count DESC, sector
`

type ListPopularSectorsRow struct {
	Sector string
	Count  int64
}

func (q *Queries) ListPopularSectors(ctx context.Context) ([]ListPopularSectorsRow, error) {
	rows, err := q.db.Query(ctx, listPopularSectors)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListPopularSectorsRow
	for rows.Next() {
		var i ListPopularSectorsRow
		if err := rows.Scan(&i.Sector, &i.Count); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanJobInfo(rows pgx.Rows) ([]JobInfo, error) {
	defer rows.Close()
	var items []JobInfo
	for rows.Next() {
		var i JobInfo
		if err := rows.Scan(
			&i.ID,
			&i.CountryCode,
			&i.Category,
			&i.Title,
			&i.Description,
			&i.WorkPermitRequired,
			&i.AverageSalary,
			&i.JobSearchTips,
			&i.PopularSectors,
			&i.JobPortals,
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
