package handler

import (
	"context"
	"net/http"

	"github.com/bpresles/CasaNova/common/models"
	"github.com/bpresles/CasaNova/common/utils"
	"github.com/go-chi/chi/v5"
)

// ScrapeLogLister pages through scrape logs. *logger.ScrapeLogService implements it.
type ScrapeLogLister interface {
	List(ctx context.Context, status string, page, perPage int) ([]models.ScrapeLog, int64, error)
}

type ScrapeLogHandler struct {
	logs   ScrapeLogLister
	router *chi.Mux
}

func NewScrapeLogHandler(logs ScrapeLogLister) *ScrapeLogHandler {
	router := chi.NewRouter()

	h := &ScrapeLogHandler{
		logs:   logs,
		router: router,
	}

	router.Get("/", h.handleList)
	return h
}

func (h *ScrapeLogHandler) Router() *chi.Mux {
	return h.router
}

// @Summary List scrape attempts, most recent first
// @Tags scrape
// @Produce json
// @Param status query string false "success or error"
// @Param page query int false "Page, from 1"
// @Param limit query int false "Page size"
// @Success 200 {object} models.BasePaginationResponse
// @Router /v1/scrape-logs [get]
func (h *ScrapeLogHandler) handleList(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := min(queryInt(r, "limit", 20), 100)

	status := r.URL.Query().Get("status")
	if err := validate.Var(status, "omitempty,oneof=success error"); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid status: "+status)
		return
	}

	logs, total, err := h.logs.List(r.Context(), status, page, limit)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to list scrape logs")
		return
	}
	if logs == nil {
		logs = []models.ScrapeLog{}
	}
	utils.WritePagination(w, http.StatusOK, logs, page, limit, total)
}
