package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bpresles/CasaNova/common"
	"github.com/bpresles/CasaNova/common/constants"
	"github.com/bpresles/CasaNova/common/models"
	"github.com/bpresles/CasaNova/common/services"
	"github.com/bpresles/CasaNova/common/work"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInfo struct {
	records   []models.Record
	lastQuery services.InfoFilter
	emergency *models.EmergencyNumbers
	labels    []models.LabelCount
}

func (f *fakeInfo) List(_ context.Context, _ constants.Category, filter services.InfoFilter) ([]models.Record, error) {
	f.lastQuery = filter
	return f.records, nil
}

func (f *fakeInfo) ListByCountry(_ context.Context, _ constants.Category, filter services.InfoFilter) ([]models.Record, error) {
	f.lastQuery = filter
	return f.records, nil
}

func (f *fakeInfo) CountriesWithEntries(context.Context, constants.Category) ([]models.CountryEntryCount, error) {
	return []models.CountryEntryCount{{Country: models.Country{Code: "FR", Name: "France"}, Entries: 2}}, nil
}

func (f *fakeInfo) Labels(context.Context, constants.Category) ([]models.LabelCount, error) {
	return f.labels, nil
}

func (f *fakeInfo) Sectors(context.Context) ([]models.LabelCount, error) {
	return []models.LabelCount{{Label: "technology", Count: 3}}, nil
}

func (f *fakeInfo) Cities(context.Context, string) ([]models.CityCount, error) {
	return nil, nil
}

func (f *fakeInfo) EmergencyNumbers(context.Context, string) (*models.EmergencyNumbers, error) {
	if f.emergency == nil {
		return nil, common.ErrNotFound
	}
	return f.emergency, nil
}

type fakeCountries struct {
	known map[string]models.Country
}

func (f *fakeCountries) List(context.Context, string) ([]models.Country, error) {
	return nil, nil
}

func (f *fakeCountries) Regions(context.Context) ([]models.RegionCount, error) {
	return []models.RegionCount{{Region: "Europe", CountryCount: 8}}, nil
}

func (f *fakeCountries) Get(_ context.Context, code string) (models.Country, error) {
	c, ok := f.known[code]
	if !ok {
		return models.Country{}, common.ErrNotFound
	}
	return c, nil
}

func (f *fakeCountries) Detail(ctx context.Context, code string) (models.CountryDetail, error) {
	c, err := f.Get(ctx, code)
	if err != nil {
		return models.CountryDetail{}, err
	}
	return models.CountryDetail{Country: c, AvailableInfo: map[string]int64{"visa": 1}}, nil
}

func (f *fakeCountries) Summary(ctx context.Context, code string) (models.CountrySummary, error) {
	c, err := f.Get(ctx, code)
	if err != nil {
		return models.CountrySummary{}, err
	}
	return models.CountrySummary{Country: c}, nil
}

type fakeScraper struct {
	records []models.Record
	err     error
	code    string
}

func (f *fakeScraper) ScrapeCountry(_ context.Context, _ constants.Category, code string) ([]models.Record, error) {
	f.code = code
	return f.records, f.err
}

type fakeBulk struct {
	err error
}

func (f *fakeBulk) Start(_ context.Context, c constants.Category) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return constants.WorkID(constants.ScrapeAllAction, c), nil
}

func visaRecord() *models.VisaInfo {
	return &models.VisaInfo{
		InfoBase: models.InfoBase{
			ID:          1,
			CountryCode: "FR",
			Title:       "Student visa",
			SourceURL:   "https://france-visas.gouv.fr/en/web/france-visas/student",
			SourceName:  "France-Visas",
			Language:    "en",
			Description: mo.Some("Long-stay visa for studies."),
		},
		VisaType: "student",
	}
}

func serve(t *testing.T, h http.Handler, method, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec, body
}

func TestCategoryHandlerList(t *testing.T) {
	info := &fakeInfo{records: []models.Record{visaRecord()}}
	h := NewCategoryHandler(constants.Visa, info, &fakeCountries{}, &fakeScraper{}, &fakeBulk{})

	rec, body := serve(t, h.Router(), http.MethodGet, "/?country=fr&type=STUDENT&language=EN")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, services.InfoFilter{CountryCode: "FR", Label: "student", Language: "en"}, info.lastQuery)

	rec, _ = serve(t, h.Router(), http.MethodGet, "/?country=france")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCategoryHandlerCountry(t *testing.T) {
	countries := &fakeCountries{known: map[string]models.Country{"FR": {Code: "FR", Name: "France"}}}

	tests := []struct {
		name       string
		category   constants.Category
		records    []models.Record
		target     string
		wantStatus int
		check      func(t *testing.T, body map[string]any)
	}{
		{
			name:       "records with the country row",
			category:   constants.Visa,
			records:    []models.Record{visaRecord()},
			target:     "/fr",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, float64(1), body["count"])
				assert.Equal(t, "France", body["country"].(map[string]any)["name"])
			},
		},
		{
			name:       "no records",
			category:   constants.Banking,
			target:     "/JP",
			wantStatus: http.StatusNotFound,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "No banking information found for this country", body["error"])
				assert.Equal(t, "JP", body["countryCode"])
			},
		},
		{
			name:       "unseeded country keeps the records",
			category:   constants.Visa,
			records:    []models.Record{visaRecord()},
			target:     "/ZZ",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.NotContains(t, body, "country")
			},
		},
		{
			name:       "visa type not found",
			category:   constants.Visa,
			target:     "/FR/Work",
			wantStatus: http.StatusNotFound,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "No visa information found", body["error"])
				assert.Equal(t, "work", body["visaType"])
			},
		},
		{
			name:       "housing city not found",
			category:   constants.Housing,
			target:     "/FR/Lyon",
			wantStatus: http.StatusNotFound,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "No housing information found", body["error"])
				assert.Equal(t, "Lyon", body["city"])
			},
		},
		{
			name:       "invalid code",
			category:   constants.Job,
			target:     "/FRA",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewCategoryHandler(tt.category, &fakeInfo{records: tt.records}, countries, &fakeScraper{}, &fakeBulk{})
			rec, body := serve(t, h.Router(), http.MethodGet, tt.target)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.check != nil {
				tt.check(t, body)
			}
		})
	}
}

func TestCategoryHandlerAggregates(t *testing.T) {
	info := &fakeInfo{}
	visa := NewCategoryHandler(constants.Visa, info, &fakeCountries{}, &fakeScraper{}, &fakeBulk{})
	job := NewCategoryHandler(constants.Job, info, &fakeCountries{}, &fakeScraper{}, &fakeBulk{})

	rec, body := serve(t, visa.Router(), http.MethodGet, "/types")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, body["data"])

	rec, body = serve(t, job.Router(), http.MethodGet, "/sectors")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "technology", body["data"].([]any)[0].(map[string]any)["label"])

	rec, body = serve(t, job.Router(), http.MethodGet, "/countries")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), body["data"].([]any)[0].(map[string]any)["entries"])
}

func TestCategoryHandlerEmergency(t *testing.T) {
	info := &fakeInfo{}
	h := NewCategoryHandler(constants.Healthcare, info, &fakeCountries{}, &fakeScraper{}, &fakeBulk{})

	rec, body := serve(t, h.Router(), http.MethodGet, "/emergency/br")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No emergency numbers found for this country", body["error"])

	info.emergency = models.NewEmergencyServices(map[string]string{"emergency": "112"})
	rec, body = serve(t, h.Router(), http.MethodGet, "/emergency/fr")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "FR", body["countryCode"])
	assert.Equal(t, map[string]any{"emergency": "112"}, body["emergency_numbers"])
}

func TestCategoryHandlerScrape(t *testing.T) {
	t.Run("single country", func(t *testing.T) {
		scraper := &fakeScraper{records: []models.Record{visaRecord()}}
		h := NewCategoryHandler(constants.Visa, &fakeInfo{}, &fakeCountries{}, scraper, &fakeBulk{})

		rec, body := serve(t, h.Router(), http.MethodPost, "/scrape/fr")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "FR", scraper.code)
		assert.Equal(t, "Scraped visa information for FR", body["message"])
		assert.Equal(t, float64(1), body["itemsScraped"])
	})

	t.Run("empty scrape returns an empty list", func(t *testing.T) {
		h := NewCategoryHandler(constants.Job, &fakeInfo{}, &fakeCountries{}, &fakeScraper{}, &fakeBulk{})
		_, body := serve(t, h.Router(), http.MethodPost, "/scrape/JP")
		assert.Equal(t, []any{}, body["data"])
	})

	t.Run("persistence failure", func(t *testing.T) {
		h := NewCategoryHandler(constants.Job, &fakeInfo{}, &fakeCountries{}, &fakeScraper{err: errors.New("db down")}, &fakeBulk{})
		rec, _ := serve(t, h.Router(), http.MethodPost, "/scrape/JP")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("bulk run", func(t *testing.T) {
		h := NewCategoryHandler(constants.Housing, &fakeInfo{}, &fakeCountries{}, &fakeScraper{}, &fakeBulk{})
		rec, body := serve(t, h.Router(), http.MethodPost, "/scrape")
		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.Equal(t, "scrape-all:housing", body["id"])
	})

	t.Run("bulk run already in progress", func(t *testing.T) {
		bulk := &fakeBulk{err: work.ErrWorkRunning}
		h := NewCategoryHandler(constants.Housing, &fakeInfo{}, &fakeCountries{}, &fakeScraper{}, bulk)
		rec, _ := serve(t, h.Router(), http.MethodPost, "/scrape")
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestCountriesHandler(t *testing.T) {
	countries := &fakeCountries{known: map[string]models.Country{"DE": {Code: "DE", Name: "Germany"}}}
	h := NewCountriesHandler(countries)

	rec, body := serve(t, h.Router(), http.MethodGet, "/de")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Germany", body["name"])

	rec, body = serve(t, h.Router(), http.MethodGet, "/xx/summary")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, map[string]any{"error": "Country not found", "code": "XX"}, body)

	rec, body = serve(t, h.Router(), http.MethodGet, "/regions")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["data"], 1)

	rec, body = serve(t, h.Router(), http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), body["count"])
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	rec, body := serve(t, NewHealthHandler(pinger{}, pinger{}).Router(), http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])

	rec, body = serve(t, NewHealthHandler(pinger{}, pinger{err: errors.New("connection refused")}).Router(), http.MethodGet, "/")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unhealthy", body["checks"].(map[string]any)["redis"].(map[string]any)["status"])
}

type fakeLogs struct {
	page, perPage int
	status        string
}

func (f *fakeLogs) List(_ context.Context, status string, page, perPage int) ([]models.ScrapeLog, int64, error) {
	f.status, f.page, f.perPage = status, page, perPage
	return []models.ScrapeLog{{ID: 1, SourceName: "Ameli", Status: models.ScrapeStatusSuccess}}, 41, nil
}

func TestScrapeLogHandler(t *testing.T) {
	logs := &fakeLogs{}
	h := NewScrapeLogHandler(logs)

	rec, body := serve(t, h.Router(), http.MethodGet, "/?status=success&page=2&limit=20")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", logs.status)
	assert.Equal(t, 2, logs.page)
	meta := body["meta"].(map[string]any)
	assert.Equal(t, float64(3), meta["last_page"])

	rec, _ = serve(t, h.Router(), http.MethodGet, "/?status=pending")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type fakeWorks struct {
	running map[string]bool
}

func (f *fakeWorks) IsRunning(_ context.Context, id string) (bool, error) {
	return f.running[id], nil
}

func (f *fakeWorks) Cancel(_ context.Context, id string) error {
	if !f.running[id] {
		return work.ErrWorkNotFound
	}
	delete(f.running, id)
	return nil
}

func (f *fakeWorks) ListRunningWorks(context.Context) ([]string, error) {
	var ids []string
	for id := range f.running {
		ids = append(ids, id)
	}
	return ids, nil
}

type fakePools struct{}

func (fakePools) Stats() map[string]any {
	return map[string]any{"visa": work.PoolStats{ActiveWorkers: 1, TasksQueued: 1}}
}

func TestWorkManagerHandler(t *testing.T) {
	works := &fakeWorks{running: map[string]bool{"scrape-all:visa": true}}
	router := NewWorkManagerHandler(works, fakePools{}).Router()

	tests := []struct {
		name     string
		method   string
		target   string
		wantCode int
		wantBody string
	}{
		{
			name:     "list with pool stats",
			method:   http.MethodGet,
			target:   "/",
			wantCode: http.StatusOK,
			wantBody: `{"works":["scrape-all:visa"],"pools":{"visa":{"active_workers":1,"tasks_queued":1,"tasks_completed":0,"tasks_in_queue":0}}}`,
		},
		{
			name:     "running work",
			method:   http.MethodGet,
			target:   "/scrape-all:visa",
			wantCode: http.StatusOK,
			wantBody: `{"id":"scrape-all:visa","running":true}`,
		},
		{name: "unknown work", method: http.MethodGet, target: "/scrape-all:job", wantCode: http.StatusNotFound},
		{name: "cancel unknown work", method: http.MethodPost, target: "/scrape-all:job/cancel", wantCode: http.StatusNotFound},
		{name: "cancel", method: http.MethodPost, target: "/scrape-all:visa/cancel", wantCode: http.StatusOK, wantBody: `{"message":"success"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}

	ids, err := works.ListRunningWorks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}
