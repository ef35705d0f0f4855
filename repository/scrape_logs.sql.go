package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createScrapeLog = `-- name: CreateScrapeLog :one
INSERT INTO scrape_logs (
    source_name, source_url, status, items_scraped, error_message, started_at, completed_at
) VALUES (
    $1, $2, $3, $4, $5, $6, $7
)
RETURNING id
`

type CreateScrapeLogParams struct {
	SourceName   string
	SourceUrl    string
	Status       string
	ItemsScraped int32
	ErrorMessage pgtype.Text
	StartedAt    pgtype.Timestamptz
	CompletedAt  pgtype.Timestamptz
}

func (q *Queries) CreateScrapeLog(ctx context.Context, arg CreateScrapeLogParams) (int64, error) {
	row := q.db.QueryRow(ctx, createScrapeLog,
		arg.SourceName,
		arg.SourceUrl,
		arg.Status,
		arg.ItemsScraped,
		arg.ErrorMessage,
		arg.StartedAt,
		arg.CompletedAt,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const listScrapeLogs = `-- name: ListScrapeLogs :many
SELECT id, source_name, source_url, status, items_scraped, error_message, started_at, completed_at
FROM scrape_logs
WHERE ($1::text IS NULL OR status = $1)
ORDER BY started_at DESC, id DESC
LIMIT $2 OFFSET $3
`

type ListScrapeLogsParams struct {
	Status pgtype.Text
	Limit  int32
	Offset int32
}

func (q *Queries) ListScrapeLogs(ctx context.Context, arg ListScrapeLogsParams) ([]ScrapeLog, error) {
	rows, err := q.db.Query(ctx, listScrapeLogs, arg.Status, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ScrapeLog
	for rows.Next() {
		var i ScrapeLog
		if err := rows.Scan(
			&i.ID,
			&i.SourceName,
			&i.SourceUrl,
			&i.Status,
			&i.ItemsScraped,
			&i.ErrorMessage,
			&i.StartedAt,
			&i.CompletedAt,
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

const countScrapeLogs = `-- name: CountScrapeLogs :one
SELECT COUNT(*) FROM scrape_logs
WHERE ($1::text IS NULL OR status = $1)
`

func (q *Queries) CountScrapeLogs(ctx context.Context, status pgtype.Text) (int64, error) {
	row := q.db.QueryRow(ctx, countScrapeLogs, status)
	var count int64
	err := row.Scan(&count)
	return count, err
}
