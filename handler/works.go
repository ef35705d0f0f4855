package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/bpresles/CasaNova/common/models"
	"github.com/bpresles/CasaNova/common/utils"
	"github.com/bpresles/CasaNova/common/work"
	"github.com/go-chi/chi/v5"
)

// WorkStore tracks running works; *work.WorkManager implements it.
type WorkStore interface {
	IsRunning(ctx context.Context, workID string) (bool, error)
	Cancel(ctx context.Context, workID string) error
	ListRunningWorks(ctx context.Context) ([]string, error)
}

// PoolReporter exposes the bulk pools counters.
type PoolReporter interface {
	Stats() map[string]any
}

type WorkManagerHandler struct {
	router      *chi.Mux
	workManager WorkStore
	pools       PoolReporter
}

// NewWorkManagerHandler serves the work states; pools may be nil.
func NewWorkManagerHandler(workManager WorkStore, pools PoolReporter) *WorkManagerHandler {
	router := chi.NewRouter()

	h := &WorkManagerHandler{
		router:      router,
		workManager: workManager,
		pools:       pools,
	}

	router.Get("/", h.handleListWorks)
	router.Get("/{workID}", h.handleGetWork)
	router.Post("/{workID}/cancel", h.handleCancelWork)

	return h
}

func (h *WorkManagerHandler) Router() *chi.Mux {
	return h.router
}

// @Summary List running bulk scrapes
// @Tags works
// @Produce json
// @Success 200 {object} models.WorkListResponse
// @Router /v1/works [get]
func (h *WorkManagerHandler) handleListWorks(w http.ResponseWriter, r *http.Request) {
	works, err := h.workManager.ListRunningWorks(r.Context())
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to list works")
		return
	}
	if works == nil {
		works = []string{}
	}
	resp := models.WorkListResponse{Works: works}
	if h.pools != nil {
		resp.Pools = h.pools.Stats()
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

func (h *WorkManagerHandler) handleGetWork(w http.ResponseWriter, r *http.Request) {
	workID := chi.URLParam(r, "workID")

	running, err := h.workManager.IsRunning(r.Context(), workID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to read work state")
		return
	}
	if !running {
		utils.WriteError(w, http.StatusNotFound, "Work not found")
		return
	}
	utils.WriteJSON(w, http.StatusOK, models.WorkResponse{ID: workID, Running: true})
}

// @Summary Cancel a bulk scrape
// @Tags works
// @Produce json
// @Param workID path string true "Work id, e.g. scrape-all:visa"
// @Success 200 {object} models.BaseResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /v1/works/{workID}/cancel [post]
func (h *WorkManagerHandler) handleCancelWork(w http.ResponseWriter, r *http.Request) {
	workID := chi.URLParam(r, "workID")

	err := h.workManager.Cancel(r.Context(), workID)
	if errors.Is(err, work.ErrWorkNotFound) {
		utils.WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.WriteMessage(w, http.StatusOK, "success")
}
