package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
)

// Per-category aggregates share one shape across the five *_info tables, so the
// table name is spliced in after being checked against infoLabelColumns.
var infoLabelColumns = map[string]string{
	"visa_info":       "visa_type",
	"job_info":        "category",
	"housing_info":    "category",
	"healthcare_info": "category",
	"banking_info":    "category",
}

func labelColumn(table string) (string, error) {
	col, ok := infoLabelColumns[table]
	if !ok {
		return "", fmt.Errorf("unknown info table %q", table)
	}
	return col, nil
}

const countEntriesByCountry = `-- name: CountEntriesByCountry :many
SELECT c.code, c.name, c.name_fr, c.region, COUNT(i.id) AS entries
FROM countries c
LEFT JOIN %s i ON c.code = i.country_code
GROUP BY c.code
ORDER BY c.name
`

type CountEntriesByCountryRow struct {
	Code    string
	Name    string
	NameFr  pgtype.Text
	Region  pgtype.Text
	Entries int64
}

func (q *Queries) CountEntriesByCountry(ctx context.Context, table string) ([]CountEntriesByCountryRow, error) {
	if _, err := labelColumn(table); err != nil {
		return nil, err
	}
	rows, err := q.db.Query(ctx, fmt.Sprintf(countEntriesByCountry, table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CountEntriesByCountryRow
	for rows.Next() {
		var i CountEntriesByCountryRow
		if err := rows.Scan(&i.Code, &i.Name, &i.NameFr, &i.Region, &i.Entries); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countLabels = `-- name: CountLabels :many
SELECT %[1]s AS label, COUNT(*) AS count
FROM %[2]s
GROUP BY %[1]s
ORDER BY count DESC, label
`

type CountLabelsRow struct {
	Label string
	Count int64
}

// CountLabels counts records per classification label (visa_type for visas).
func (q *Queries) CountLabels(ctx context.Context, table string) ([]CountLabelsRow, error) {
	col, err := labelColumn(table)
	if err != nil {
		return nil, err
	}
	rows, err := q.db.Query(ctx, fmt.Sprintf(countLabels, col, table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CountLabelsRow
	for rows.Next() {
		var i CountLabelsRow
		if err := rows.Scan(&i.Label, &i.Count); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countCountryEntries = `-- name: CountCountryEntries :one
SELECT
    (SELECT COUNT(*) FROM visa_info WHERE country_code = $1) AS visa,
    (SELECT COUNT(*) FROM job_info WHERE country_code = $1) AS job,
    (SELECT COUNT(*) FROM housing_info WHERE country_code = $1) AS housing,
    (SELECT COUNT(*) FROM healthcare_info WHERE country_code = $1) AS healthcare,
    (SELECT COUNT(*) FROM banking_info WHERE country_code = $1) AS banking
`

type CountCountryEntriesRow struct {
	Visa       int64
	Job        int64
	Housing    int64
	Healthcare int64
	Banking    int64
}

func (q *Queries) CountCountryEntries(ctx context.Context, countryCode string) (CountCountryEntriesRow, error) {
	row := q.db.QueryRow(ctx, countCountryEntries, countryCode)
	var i CountCountryEntriesRow
	err := row.Scan(&i.Visa, &i.Job, &i.Housing, &i.Healthcare, &i.Banking)
	return i, err
}
