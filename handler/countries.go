package handler

import (
	"errors"
	"net/http"

	"github.com/bpresles/CasaNova/common"
	"github.com/bpresles/CasaNova/common/models"
	"github.com/bpresles/CasaNova/common/services"
	"github.com/bpresles/CasaNova/common/utils"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type CountriesHandler struct {
	countries services.CountryService
	router    *chi.Mux
}

func NewCountriesHandler(countries services.CountryService) *CountriesHandler {
	router := chi.NewRouter()

	h := &CountriesHandler{
		countries: countries,
		router:    router,
	}

	router.Get("/", h.handleList)
	router.Get("/regions", h.handleRegions)
	router.Get("/{code}", h.handleGet)
	router.Get("/{code}/summary", h.handleSummary)
	return h
}

func (h *CountriesHandler) Router() *chi.Mux {
	return h.router
}

// @Summary List countries
// @Tags countries
// @Produce json
// @Param region query string false "Region name"
// @Success 200 {object} models.ListResponse
// @Router /v1/countries [get]
func (h *CountriesHandler) handleList(w http.ResponseWriter, r *http.Request) {
	countries, err := h.countries.List(r.Context(), r.URL.Query().Get("region"))
	if err != nil {
		log.Error().Err(err).Msg("Failed to list countries")
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.WriteList(w, http.StatusOK, countries)
}

func (h *CountriesHandler) handleRegions(w http.ResponseWriter, r *http.Request) {
	regions, err := h.countries.Regions(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list regions")
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if regions == nil {
		regions = []models.RegionCount{}
	}
	utils.WriteJSON(w, http.StatusOK, models.DataResponse{Data: regions})
}

// @Summary Country with per-category record counts
// @Tags countries
// @Produce json
// @Param code path string true "Country code"
// @Success 200 {object} models.CountryDetail
// @Failure 404 {object} models.CountryNotFoundResponse
// @Router /v1/countries/{code} [get]
func (h *CountriesHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	code, ok := pathCountryCode(w, r)
	if !ok {
		return
	}

	detail, err := h.countries.Detail(r.Context(), code)
	if h.failed(w, err, code) {
		return
	}
	utils.WriteJSON(w, http.StatusOK, detail)
}

// @Summary Latest records of every category for a country
// @Tags countries
// @Produce json
// @Param code path string true "Country code"
// @Success 200 {object} models.CountrySummary
// @Failure 404 {object} models.CountryNotFoundResponse
// @Router /v1/countries/{code}/summary [get]
func (h *CountriesHandler) handleSummary(w http.ResponseWriter, r *http.Request) {
	code, ok := pathCountryCode(w, r)
	if !ok {
		return
	}

	summary, err := h.countries.Summary(r.Context(), code)
	if h.failed(w, err, code) {
		return
	}
	utils.WriteJSON(w, http.StatusOK, summary)
}

func (h *CountriesHandler) failed(w http.ResponseWriter, err error, code string) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, common.ErrNotFound):
		utils.WriteJSON(w, http.StatusNotFound, models.CountryNotFoundResponse{Error: "Country not found", Code: code})
	default:
		log.Error().Err(err).Str("country", code).Msg("Failed to read country")
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
	}
	return true
}
