package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const createBankingInfo = `-- name: CreateBankingInfo :one
INSERT INTO banking_info (
    country_code, category, title, description, account_requirements,
    recommended_banks, tips, source_url, source_name, language
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, $10
)
RETURNING id
`

type CreateBankingInfoParams struct {
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
}

func (q *Queries) CreateBankingInfo(ctx context.Context, arg CreateBankingInfoParams) (int64, error) {
	row := q.db.QueryRow(ctx, createBankingInfo,
		arg.CountryCode,
		arg.Category,
		arg.Title,
		arg.Description,
		arg.AccountRequirements,
		arg.RecommendedBanks,
		arg.Tips,
		arg.SourceUrl,
		arg.SourceName,
		arg.Language,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const updateBankingInfoByKey = `-- name: UpdateBankingInfoByKey :one
UPDATE banking_info SET
    category = $4, description = $5, account_requirements = $6, recommended_banks = $7,
    tips = $8, source_name = $9, language = $10, updated_at = now()
WHERE id = (
    SELECT id FROM banking_info
    WHERE country_code = $1 AND source_url = $2 AND title = $3
    ORDER BY id DESC
    LIMIT 1
)
RETURNING id
`

func (q *Queries) UpdateBankingInfoByKey(ctx context.Context, arg CreateBankingInfoParams) (int64, error) {
	row := q.db.QueryRow(ctx, updateBankingInfoByKey,
		arg.CountryCode,
		arg.SourceUrl,
		arg.Title,
		arg.Category,
		arg.Description,
		arg.AccountRequirements,
		arg.RecommendedBanks,
		arg.Tips,
		arg.SourceName,
		arg.Language,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const listBankingInfo = `-- name: ListBankingInfo :many
SELECT id, country_code, category, title, description, account_requirements,
    recommended_banks, tips, source_url, source_name, language, created_at, updated_at
FROM banking_info
WHERE ($1::text IS NULL OR country_code = $1)
    AND ($2::text IS NULL OR category = $2)
    AND ($3::text IS NULL OR language = $3)
ORDER BY updated_at DESC, id DESC
LIMIT $4
`

type ListBankingInfoParams struct {
	CountryCode pgtype.Text
	Category    pgtype.Text
	Language    pgtype.Text
	Limit       pgtype.Int4
}

func (q *Queries) ListBankingInfo(ctx context.Context, arg ListBankingInfoParams) ([]BankingInfo, error) {
	rows, err := q.db.Query(ctx, listBankingInfo,
		arg.CountryCode,
		arg.Category,
		arg.Language,
		arg.Limit,
	)
	if err != nil {
		return nil, err
	}
	return scanBankingInfo(rows)
}

const listBankingInfoByCountry = `-- name: ListBankingInfoByCountry :many
SELECT id, country_code, category, title, description, account_requirements,
    recommended_banks, tips, source_url, source_name, language, created_at, updated_at
FROM banking_info
WHERE country_code = $1
    AND ($2::text IS NULL OR category = $2)
ORDER BY category, updated_at DESC, id DESC
`

type ListBankingInfoByCountryParams struct {
	CountryCode string
	Category    pgtype.Text
}

func (q *Queries) ListBankingInfoByCountry(ctx context.Context, arg ListBankingInfoByCountryParams) ([]BankingInfo, error) {
	rows, err := q.db.Query(ctx, listBankingInfoByCountry, arg.CountryCode, arg.Category)
	if err != nil {
		return nil, err
	}
	return scanBankingInfo(rows)
}

func scanBankingInfo(rows pgx.Rows) ([]BankingInfo, error) {
	defer rows.Close()
	var items []BankingInfo
	for rows.Next() {
		var i BankingInfo
		if err := rows.Scan(
			&i.ID,
			&i.CountryCode,
			&i.Category,
			&i.Title,
			&i.Description,
			&i.AccountRequirements,
			&i.RecommendedBanks,
			&i.Tips,
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
