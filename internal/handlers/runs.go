package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"resource-center-placer/internal/models"
)

// RunListResponse is the paginated run history
type RunListResponse struct {
	Runs  []models.Run `json:"runs"`
	Total int          `json:"total"`
}

// HandleListRuns handles GET /api/runs
func (h *Handler) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	if h.DB == nil {
		h.writeError(w, http.StatusServiceUnavailable, "NO_STORE", "Run history requires a database", nil)
		return
	}

	limit := 20
	offset := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 200 {
			h.handleValidationError(w, "limit must be between 1 and 200")
			return
		}
		limit = n
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			h.handleValidationError(w, "offset must be non-negative")
			return
		}
		offset = n
	}

	runs, total, err := h.DB.Runs().List(r.Context(), limit, offset)
	if err != nil {
		h.handleInternalError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, RunListResponse{Runs: runs, Total: total})
}

// HandleGetRun handles GET /api/runs/{id}
func (h *Handler) HandleGetRun(w http.ResponseWriter, r *http.Request) {
	if h.DB == nil {
		h.writeError(w, http.StatusServiceUnavailable, "NO_STORE", "Run history requires a database", nil)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.handleValidationError(w, "Invalid run ID")
		return
	}

	run, err := h.DB.Runs().GetByID(r.Context(), id)
	if err != nil {
		if h.checkNotFound(err) {
			h.handleNotFound(w, "Run not found")
			return
		}
		h.handleInternalError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, run)
}

// HandleDeleteRun handles DELETE /api/runs/{id}
func (h *Handler) HandleDeleteRun(w http.ResponseWriter, r *http.Request) {
	if h.DB == nil {
		h.writeError(w, http.StatusServiceUnavailable, "NO_STORE", "Run history requires a database", nil)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.handleValidationError(w, "Invalid run ID")
		return
	}

	if err := h.DB.Runs().Delete(r.Context(), id); err != nil {
		if h.checkNotFound(err) {
			h.handleNotFound(w, "Run not found")
			return
		}
		h.handleInternalError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
