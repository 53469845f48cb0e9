package models

import (
	"encoding/json"
	"math"
	"time"
)

// Coordinates represents a geographic point
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Point is a resource point that may host or be served by a collection
// center. Zone attributes (land type, slope, elevation) are merged in from a
// separate dataset and stay at their zero values when no zone record matches.
type Point struct {
	ID               int     `json:"id"`
	Lat              float64 `json:"latitude"`
	Lon              float64 `json:"longitude"`
	ResourceQuantity float64 `json:"resource_quantity"`
	LandType         string  `json:"land_type"`
	Slope            float64 `json:"slope"`
	Elevation        float64 `json:"elevation"`
}

// Coords returns the coordinates of the point
func (p *Point) Coords() Coordinates {
	return Coordinates{Lat: p.Lat, Lon: p.Lon}
}

// OptimizeParams holds the knobs for a single optimization run
type OptimizeParams struct {
	K                int      `json:"k"`
	MinSeparationKm  float64  `json:"min_separation_km"`
	ExcludeLandTypes []string `json:"exclude_land_types"`
	MaxSlope         float64  `json:"max_slope"`
	MaxRounds        int      `json:"max_rounds"`
	Seed             int64    `json:"seed"`
}

// MinSeparationMeters converts the configured separation to meters
func (p *OptimizeParams) MinSeparationMeters() float64 {
	return p.MinSeparationKm * 1000
}

// ExcludedSet returns the excluded land types as a lookup set
func (p *OptimizeParams) ExcludedSet() map[string]bool {
	set := make(map[string]bool, len(p.ExcludeLandTypes))
	for _, t := range p.ExcludeLandTypes {
		set[t] = true
	}
	return set
}

// InfeasibleCost is the sentinel cost reported when no solution exists
// (fewer eligible candidates than requested centers).
var InfeasibleCost = math.Inf(1)

// Center describes one chosen collection center in a solution
type Center struct {
	ID        int     `json:"id"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	LandType  string  `json:"land_type"`
	Slope     float64 `json:"slope"`
	Elevation float64 `json:"elevation"`
}

// Assignment maps one resource point to its nearest chosen center
type Assignment struct {
	PointID        int     `json:"point_id"`
	CenterID       int     `json:"center_id"`
	DistanceMeters float64 `json:"distance_meters"`
}

// Diagnostics carries counters reported alongside a solution
type Diagnostics struct {
	TotalPoints     int  `json:"total_points"`
	CandidateCount  int  `json:"candidate_count"`
	Rounds          int  `json:"rounds"`
	Degraded        bool `json:"degraded"`
	FallbackLookups int  `json:"fallback_lookups"`
}

// Solution is the reported outcome of an optimization run
type Solution struct {
	Feasible    bool         `json:"feasible"`
	Centers     []Center     `json:"centers"`
	TotalCost   float64      `json:"total_cost"`
	Assignments []Assignment `json:"assignments"`
	Diagnostics Diagnostics  `json:"diagnostics"`
}

// MarshalJSON emits total_cost as null for infeasible solutions, since an
// infinite float has no JSON representation.
func (s Solution) MarshalJSON() ([]byte, error) {
	type alias Solution
	wire := struct {
		alias
		TotalCost *float64 `json:"total_cost"`
	}{alias: alias(s)}
	if !math.IsInf(s.TotalCost, 1) {
		wire.TotalCost = &s.TotalCost
	}
	return json.Marshal(wire)
}

// Run is a persisted snapshot of a completed optimization
type Run struct {
	ID        int64          `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	Params    OptimizeParams `json:"params"`
	Solution  Solution       `json:"solution"`
}

// LoadStats reports what the loading layer read and how the zone join went
type LoadStats struct {
	Points            int `json:"points"`
	ZoneRecords       int `json:"zone_records"`
	UnmatchedZones    int `json:"unmatched_zones"`
	PointsWithoutZone int `json:"points_without_zone"`
	DistanceEntries   int `json:"distance_entries"`
}
