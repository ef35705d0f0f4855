package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bpresles/CasaNova/common"
	"github.com/bpresles/CasaNova/common/constants"
	"github.com/bpresles/CasaNova/common/models"
	"github.com/bpresles/CasaNova/common/services"
	"github.com/bpresles/CasaNova/common/utils"
	"github.com/bpresles/CasaNova/common/work"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// CountryScraper scrapes one country synchronously. *crawlers.Orchestrator implements it.
type CountryScraper interface {
	ScrapeCountry(ctx context.Context, category constants.Category, countryCode string) ([]models.Record, error)
}

// BulkStarter queues a background scrape of every country. *crawlers.BulkRunner implements it.
type BulkStarter interface {
	Start(ctx context.Context, category constants.Category) (string, error)
}

type listQuery struct {
	CountryCode string `validate:"omitempty,len=2,alpha"`
	Label       string `validate:"omitempty,max=64"`
	Language    string `validate:"omitempty,min=2,max=8"`
	City        string `validate:"omitempty,max=128"`
}

// CategoryHandler serves the routes of one information category.
type CategoryHandler struct {
	category  constants.Category
	info      services.InfoService
	countries services.CountryService
	scraper   CountryScraper
	bulk      BulkStarter
	router    *chi.Mux
}

func NewCategoryHandler(category constants.Category, info services.InfoService, countries services.CountryService, scraper CountryScraper, bulk BulkStarter) *CategoryHandler {
	router := chi.NewRouter()

	h := &CategoryHandler{
		category:  category,
		info:      info,
		countries: countries,
		scraper:   scraper,
		bulk:      bulk,
		router:    router,
	}

	router.Get("/", h.handleList)
	router.Get("/countries", h.handleCountries)
	if category == constants.Visa {
		router.Get("/types", h.handleLabels)
	} else {
		router.Get("/categories", h.handleLabels)
	}

	switch category {
	case constants.Visa:
		router.Get("/{code}/{visaType}", h.handleVisaType)
	case constants.Job:
		router.Get("/sectors", h.handleSectors)
	case constants.Housing:
		router.Get("/cities", h.handleCities)
		router.Get("/{code}/{city}", h.handleCity)
	case constants.Healthcare:
		router.Get("/emergency/{code}", h.handleEmergency)
	}

	router.Get("/{code}", h.handleCountry)
	router.Post("/scrape", h.handleScrapeAll)
	router.Post("/scrape/{code}", h.handleScrapeCountry)
	return h
}

func (h *CategoryHandler) Router() *chi.Mux {
	return h.router
}

// labelParam is the query parameter filtering on the record label.
func (h *CategoryHandler) labelParam() string {
	if h.category == constants.Visa {
		return "type"
	}
	return "category"
}

func (h *CategoryHandler) notFound(w http.ResponseWriter, resp models.NotFoundResponse) {
	utils.WriteJSON(w, http.StatusNotFound, resp)
}

func (h *CategoryHandler) serverError(w http.ResponseWriter, err error, msg string) {
	log.Error().Err(err).Str("category", h.category.String()).Msg(msg)
	utils.WriteError(w, http.StatusInternalServerError, err.Error())
}

// @Summary List records of a category
// @Tags info
// @Produce json
// @Param country query string false "ISO 3166-1 alpha-2 country code"
// @Param category query string false "Record category (type for visa)"
// @Param language query string false "Language code"
// @Param city query string false "City substring (housing only)"
// @Success 200 {object} models.ListResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /v1/{category} [get]
func (h *CategoryHandler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := listQuery{
		CountryCode: strings.ToUpper(q.Get("country")),
		Label:       strings.ToLower(q.Get(h.labelParam())),
		Language:    strings.ToLower(q.Get("language")),
	}
	if h.category == constants.Housing {
		params.City = q.Get("city")
	}
	if err := validate.Struct(params); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := h.info.List(r.Context(), h.category, services.InfoFilter{
		CountryCode: params.CountryCode,
		Label:       params.Label,
		Language:    params.Language,
		City:        params.City,
	})
	if err != nil {
		h.serverError(w, err, "Failed to list records")
		return
	}
	utils.WriteList(w, http.StatusOK, records)
}

func (h *CategoryHandler) handleCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.info.CountriesWithEntries(r.Context(), h.category)
	if err != nil {
		h.serverError(w, err, "Failed to count entries per country")
		return
	}
	utils.WriteList(w, http.StatusOK, countries)
}

func (h *CategoryHandler) handleLabels(w http.ResponseWriter, r *http.Request) {
	labels, err := h.info.Labels(r.Context(), h.category)
	if err != nil {
		h.serverError(w, err, "Failed to count labels")
		return
	}
	if labels == nil {
		labels = []models.LabelCount{}
	}
	utils.WriteJSON(w, http.StatusOK, models.DataResponse{Data: labels})
}

func (h *CategoryHandler) handleSectors(w http.ResponseWriter, r *http.Request) {
	sectors, err := h.info.Sectors(r.Context())
	if err != nil {
		h.serverError(w, err, "Failed to count sectors")
		return
	}
	if sectors == nil {
		sectors = []models.LabelCount{}
	}
	utils.WriteJSON(w, http.StatusOK, models.DataResponse{Data: sectors})
}

func (h *CategoryHandler) handleCities(w http.ResponseWriter, r *http.Request) {
	country := strings.ToUpper(r.URL.Query().Get("country"))
	if err := validate.Var(country, "omitempty,len=2,alpha"); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid country code: "+country)
		return
	}

	cities, err := h.info.Cities(r.Context(), country)
	if err != nil {
		h.serverError(w, err, "Failed to list cities")
		return
	}
	utils.WriteList(w, http.StatusOK, cities)
}

// @Summary Emergency numbers of a country
// @Tags info
// @Produce json
// @Param code path string true "Country code"
// @Success 200 {object} models.EmergencyResponse
// @Failure 404 {object} models.NotFoundResponse
// @Router /v1/healthcare/emergency/{code} [get]
func (h *CategoryHandler) handleEmergency(w http.ResponseWriter, r *http.Request) {
	code, ok := pathCountryCode(w, r)
	if !ok {
		return
	}

	numbers, err := h.info.EmergencyNumbers(r.Context(), code)
	if errors.Is(err, common.ErrNotFound) {
		h.notFound(w, models.NotFoundResponse{
			Error:       "No emergency numbers found for this country",
			CountryCode: code,
		})
		return
	}
	if err != nil {
		h.serverError(w, err, "Failed to read emergency numbers")
		return
	}
	utils.WriteJSON(w, http.StatusOK, models.EmergencyResponse{CountryCode: code, EmergencyNumbers: numbers})
}

// @Summary Records of one country
// @Tags info
// @Produce json
// @Param category path string true "visa, job, housing, healthcare or banking"
// @Param code path string true "Country code"
// @Success 200 {object} models.CountryDataResponse
// @Failure 404 {object} models.NotFoundResponse
// @Router /v1/{category}/{code} [get]
func (h *CategoryHandler) handleCountry(w http.ResponseWriter, r *http.Request) {
	code, ok := pathCountryCode(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := services.InfoFilter{
		CountryCode: code,
		Label:       strings.ToLower(q.Get(h.labelParam())),
	}
	if h.category == constants.Housing {
		filter.City = q.Get("city")
	}

	records, err := h.info.ListByCountry(r.Context(), h.category, filter)
	if err != nil {
		h.serverError(w, err, "Failed to list country records")
		return
	}
	if len(records) == 0 {
		h.notFound(w, models.NotFoundResponse{
			Error:       fmt.Sprintf("No %s information found for this country", h.category),
			CountryCode: code,
		})
		return
	}

	resp := models.CountryDataResponse{Count: len(records), Data: records}
	country, err := h.countries.Get(r.Context(), code)
	switch {
	case err == nil:
		resp.Country = &country
	case !errors.Is(err, common.ErrNotFound):
		h.serverError(w, err, "Failed to read country")
		return
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

func (h *CategoryHandler) handleVisaType(w http.ResponseWriter, r *http.Request) {
	code, ok := pathCountryCode(w, r)
	if !ok {
		return
	}
	visaType := strings.ToLower(chi.URLParam(r, "visaType"))

	records, err := h.info.ListByCountry(r.Context(), h.category, services.InfoFilter{CountryCode: code, Label: visaType})
	if err != nil {
		h.serverError(w, err, "Failed to list visa records")
		return
	}
	if len(records) == 0 {
		h.notFound(w, models.NotFoundResponse{
			Error:       "No visa information found",
			CountryCode: code,
			VisaType:    visaType,
		})
		return
	}
	utils.WriteList(w, http.StatusOK, records)
}

func (h *CategoryHandler) handleCity(w http.ResponseWriter, r *http.Request) {
	code, ok := pathCountryCode(w, r)
	if !ok {
		return
	}
	city := chi.URLParam(r, "city")

	records, err := h.info.ListByCountry(r.Context(), h.category, services.InfoFilter{CountryCode: code, City: city})
	if err != nil {
		h.serverError(w, err, "Failed to list city records")
		return
	}
	if len(records) == 0 {
		h.notFound(w, models.NotFoundResponse{
			Error:       "No housing information found",
			CountryCode: code,
			City:        city,
		})
		return
	}
	utils.WriteList(w, http.StatusOK, records)
}

// @Summary Scrape one country now
// @Tags scrape
// @Produce json
// @Param category path string true "visa, job, housing, healthcare or banking"
// @Param code path string true "Country code"
// @Success 200 {object} models.ScrapeResponse
// @Router /v1/{category}/scrape/{code} [post]
func (h *CategoryHandler) handleScrapeCountry(w http.ResponseWriter, r *http.Request) {
	code, ok := pathCountryCode(w, r)
	if !ok {
		return
	}

	records, err := h.scraper.ScrapeCountry(r.Context(), h.category, code)
	if err != nil {
		h.serverError(w, err, "Country scrape failed")
		return
	}
	if records == nil {
		records = []models.Record{}
	}
	utils.WriteJSON(w, http.StatusOK, models.ScrapeResponse{
		Message:      fmt.Sprintf("Scraped %s information for %s", h.category, code),
		ItemsScraped: len(records),
		Data:         records,
	})
}

// @Summary Scrape every country in the background
// @Tags scrape
// @Produce json
// @Param category path string true "visa, job, housing, healthcare or banking"
// @Success 202 {object} models.WorkResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /v1/{category}/scrape [post]
func (h *CategoryHandler) handleScrapeAll(w http.ResponseWriter, r *http.Request) {
	workID, err := h.bulk.Start(r.Context(), h.category)
	if errors.Is(err, work.ErrWorkRunning) {
		utils.WriteError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		h.serverError(w, err, "Failed to start bulk scrape")
		return
	}
	utils.WriteJSON(w, http.StatusAccepted, models.WorkResponse{ID: workID, Running: true})
}
