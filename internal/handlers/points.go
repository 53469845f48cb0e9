package handlers

import (
	"net/http"

	"resource-center-placer/internal/models"
)

// PointListResponse is the loaded point dataset
type PointListResponse struct {
	Points []models.Point `json:"points"`
	Total  int            `json:"total"`
}

// HandleListPoints handles GET /api/points
func (h *Handler) HandleListPoints(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, PointListResponse{
		Points: h.Points,
		Total:  len(h.Points),
	})
}

// HandleHealthCheck handles GET /healthz
func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	dbStatus := "disabled"

	if h.DB != nil {
		dbStatus = "connected"
		if err := h.DB.HealthCheck(r.Context()); err != nil {
			status = "degraded"
			dbStatus = "error"
		}
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   status,
		"version":  "1.0.0",
		"points":   len(h.Points),
		"database": dbStatus,
	})
}
