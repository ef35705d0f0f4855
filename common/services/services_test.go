package services

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/bpresles/CasaNova/common"
	"github.com/bpresles/CasaNova/common/constants"
	"github.com/bpresles/CasaNova/common/logger"
	"github.com/bpresles/CasaNova/common/models"
	"github.com/bpresles/CasaNova/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func bankingRecord() *models.BankingInfo {
	return &models.BankingInfo{
		InfoBase: models.InfoBase{
			CountryCode: "DE",
			Title:       "Opening a bank account",
			SourceURL:   "https://www.make-it-in-germany.com/en/living-in-germany/money-insurance/bank-account",
			SourceName:  "Make it in Germany",
			Language:    "en",
		},
		Category:         "account",
		RecommendedBanks: models.List[string]{"N26", "Revolut"},
	}
}

func TestPgGatewayInsertRecord(t *testing.T) {
	tests := []struct {
		name   string
		upsert bool
		expect func(mock pgxmock.PgxPoolIface)
		wantID int64
	}{
		{
			name: "append only inserts",
			expect: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO banking_info")).
					WithArgs(anyArgs(10)...).
					WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(11)))
			},
			wantID: 11,
		},
		{
			name:   "upsert updates an existing record",
			upsert: true,
			expect: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(regexp.QuoteMeta("UPDATE banking_info SET")).
					WithArgs(anyArgs(10)...).
					WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(4)))
			},
			wantID: 4,
		},
		{
			name:   "upsert inserts when the key is new",
			upsert: true,
			expect: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(regexp.QuoteMeta("UPDATE banking_info SET")).
					WithArgs(anyArgs(10)...).
					WillReturnError(pgx.ErrNoRows)
				mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO banking_info")).
					WithArgs(anyArgs(10)...).
					WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(12)))
			},
			wantID: 12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()
			tt.expect(mock)

			q := repository.New(mock)
			gw := NewPgGateway(q, logger.NewScrapeLogService(q), WithUpsert(tt.upsert))

			record := bankingRecord()
			require.NoError(t, gw.InsertRecord(context.Background(), record))
			assert.Equal(t, tt.wantID, record.ID)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPgGatewayWritesNullForEmptyLists(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	record := bankingRecord()
	record.RecommendedBanks = nil

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO banking_info")).
		WithArgs("DE", "account", "Opening a bank account", pgtype.Text{},
			[]byte(nil), []byte(nil), []byte(nil),
			record.SourceURL, "Make it in Germany", "en").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))

	q := repository.New(mock)
	gw := NewPgGateway(q, logger.NewScrapeLogService(q))
	require.NoError(t, gw.InsertRecord(context.Background(), record))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgGatewayInsertFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO healthcare_info")).
		WithArgs(anyArgs(11)...).
		WillReturnError(errors.New("violates foreign key constraint"))

	q := repository.New(mock)
	gw := NewPgGateway(q, logger.NewScrapeLogService(q))
	err = gw.InsertRecord(context.Background(), &models.HealthcareInfo{
		InfoBase: models.InfoBase{CountryCode: "ZZ", Title: "Healthcare", SourceURL: "https://example.org", SourceName: "x", Language: "en"},
		Category: constants.GeneralLabel,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writing healthcare record")
}

func TestHealthcareRowRoundTrip(t *testing.T) {
	in := &models.HealthcareInfo{
		InfoBase: models.InfoBase{CountryCode: "FR", Title: "Healthcare Information for FR",
			SourceURL: "https://www.ameli.fr/", SourceName: "Ameli", Language: "en"},
		Category:         constants.GeneralLabel,
		EmergencyNumbers: models.NewEmergencyServices(map[string]string{"emergency": "112", "samu": "15"}),
		PublicSystemInfo: mo.Some("public health insurance covers 70%"),
	}
	params, err := healthcareParams(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"emergency":"112","samu":"15"}`, string(params.EmergencyNumbers))
	assert.Nil(t, params.UsefulLinks)

	out, err := healthcareFromRow(repository.HealthcareInfo{
		ID:               1,
		CountryCode:      params.CountryCode,
		Category:         params.Category,
		Title:            params.Title,
		PublicSystemInfo: params.PublicSystemInfo,
		EmergencyNumbers: params.EmergencyNumbers,
		SourceUrl:        params.SourceUrl,
		SourceName:       params.SourceName,
		Language:         params.Language,
	})
	require.NoError(t, err)
	assert.Equal(t, in.EmergencyNumbers.Services, out.EmergencyNumbers.Services)
	assert.Equal(t, in.PublicSystemInfo, out.PublicSystemInfo)
	assert.Nil(t, out.UsefulLinks)
}

func TestInfoRepositoryEmergencyNumbersNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT emergency_numbers FROM healthcare_info")).
		WithArgs("BR").
		WillReturnError(pgx.ErrNoRows)

	_, err = NewInfoRepository(repository.New(mock)).EmergencyNumbers(context.Background(), "BR")
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestInfoRepositoryUnknownCategory(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	_, err = NewInfoRepository(repository.New(mock)).List(context.Background(), "weather", InfoFilter{})
	assert.True(t, errors.Is(err, common.ErrUnknownCategory))
}

func TestCountryRepositoryGetNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM countries")).
		WithArgs("XX").
		WillReturnError(pgx.ErrNoRows)

	q := repository.New(mock)
	_, err = NewCountryRepository(q, NewInfoRepository(q)).Get(context.Background(), "XX")
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestCountryRepositoryDetail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM countries")).
		WithArgs("FR").
		WillReturnRows(pgxmock.NewRows([]string{"code", "name", "name_fr", "region", "created_at"}).
			AddRow("FR", "France", "France", "Europe", nil))
	mock.ExpectQuery(regexp.QuoteMeta("FROM visa_info WHERE country_code = $1) AS visa")).
		WithArgs("FR").
		WillReturnRows(pgxmock.NewRows([]string{"visa", "job", "housing", "healthcare", "banking"}).
			AddRow(int64(3), int64(2), int64(0), int64(1), int64(4)))

	q := repository.New(mock)
	detail, err := NewCountryRepository(q, NewInfoRepository(q)).Detail(context.Background(), "FR")
	require.NoError(t, err)
	assert.Equal(t, "France", detail.Name)
	assert.Equal(t, int64(4), detail.AvailableInfo["banking"])
	assert.Equal(t, "/v1/housing/FR", detail.Endpoints["housing"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountryRepositorySummary(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	mock.MatchExpectationsInOrder(false)

	mock.ExpectQuery(regexp.QuoteMeta("FROM countries")).
		WithArgs("FR").
		WillReturnRows(pgxmock.NewRows([]string{"code", "name", "name_fr", "region", "created_at"}).
			AddRow("FR", "France", "France", "Europe", nil))

	limit := pgtype.Int4{Int32: summaryLatest, Valid: true}
	fr := pgtype.Text{String: "FR", Valid: true}
	for _, table := range []string{"visa_info", "job_info", "healthcare_info", "banking_info"} {
		mock.ExpectQuery(regexp.QuoteMeta("FROM "+table+"\nWHERE ($1::text IS NULL")).
			WithArgs(fr, pgtype.Text{}, pgtype.Text{}, limit).
			WillReturnRows(pgxmock.NewRows([]string{"id"}))
	}
	mock.ExpectQuery(regexp.QuoteMeta("FROM housing_info\nWHERE ($1::text IS NULL")).
		WithArgs(fr, pgtype.Text{}, pgtype.Text{}, pgtype.Text{}, limit).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	q := repository.New(mock)
	summary, err := NewCountryRepository(q, NewInfoRepository(q)).Summary(context.Background(), "FR")
	require.NoError(t, err)
	assert.Equal(t, "FR", summary.Country.Code)
	assert.Len(t, summary.Summary, len(constants.Categories))
	assert.NoError(t, mock.ExpectationsWereMet())
}
