package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"resource-center-placer/internal/config"
	"resource-center-placer/internal/distance"
	"resource-center-placer/internal/models"
	"resource-center-placer/internal/optimizer"
)

// OptimizeRequest carries per-run parameter overrides. Pointer fields
// distinguish "absent" from an explicit zero; anything absent falls back to
// the server defaults.
type OptimizeRequest struct {
	K                *int     `json:"k"`
	MinSeparationKm  *float64 `json:"min_separation_km"`
	ExcludeLandTypes []string `json:"exclude_land_types"`
	MaxSlope         *float64 `json:"max_slope"`
	MaxRounds        *int     `json:"max_rounds"`
	Seed             *int64   `json:"seed"`
	Persist          bool     `json:"persist"`
}

// OptimizeResponse is the result of a single optimization run
type OptimizeResponse struct {
	RunID    *int64                `json:"run_id,omitempty"`
	Params   models.OptimizeParams `json:"params"`
	Solution *models.Solution      `json:"solution"`
}

// HandleOptimize handles POST /api/optimize
func (h *Handler) HandleOptimize(w http.ResponseWriter, r *http.Request) {
	var req OptimizeRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.handleValidationError(w, "Invalid request body")
			return
		}
	}

	params := h.Defaults
	if req.K != nil {
		params.K = *req.K
	}
	if req.MinSeparationKm != nil {
		params.MinSeparationKm = *req.MinSeparationKm
	}
	if req.ExcludeLandTypes != nil {
		params.ExcludeLandTypes = req.ExcludeLandTypes
	}
	if req.MaxSlope != nil {
		params.MaxSlope = *req.MaxSlope
	}
	if req.MaxRounds != nil {
		params.MaxRounds = *req.MaxRounds
	}
	if req.Seed != nil {
		params.Seed = *req.Seed
	}

	if err := config.Validate(params); err != nil {
		h.handleValidationError(w, err.Error())
		return
	}

	start := time.Now()
	solution, err := optimizer.New(h.Points, h.Oracle, params).Solve(r.Context())
	if err != nil {
		h.Metrics.ObserveError()
		h.handleInternalError(w, err)
		return
	}
	h.Metrics.ObserveRun(solution, time.Since(start).Seconds())

	resp := OptimizeResponse{Params: params, Solution: solution}

	if req.Persist && h.DB != nil {
		run, err := h.DB.Runs().Create(r.Context(), params, solution)
		if err != nil {
			h.handleInternalError(w, err)
			return
		}
		resp.RunID = &run.ID
		h.persistFallbacks(r)
	}

	log.Printf("[HTTP] Optimization complete: k=%d feasible=%t rounds=%d duration=%s",
		params.K, solution.Feasible, solution.Diagnostics.Rounds, time.Since(start).Round(time.Millisecond))
	h.writeJSON(w, http.StatusOK, resp)
}

// persistFallbacks flushes great-circle fallback distances into the cache so
// later runs resolve them from the table.
func (h *Handler) persistFallbacks(r *http.Request) {
	table, ok := h.Oracle.(*distance.TableOracle)
	if !ok {
		return
	}
	entries := table.DrainFallbacks()
	if len(entries) == 0 {
		return
	}
	if err := h.DB.DistanceCache().SetBatch(r.Context(), entries); err != nil {
		log.Printf("[HTTP] Failed to persist fallback distances: %v", err)
	}
}
