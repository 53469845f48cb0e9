// Package config loads optimization constraints from a YAML file, applying
// the historical defaults for anything left unset.
package config

import (
	"fmt"
	"log"
	"os"

	"github.com/goccy/go-yaml"

	"resource-center-placer/internal/models"
)

// Constraints mirrors the constraints file. Pointer fields distinguish
// "absent" from an explicit zero.
type Constraints struct {
	K                *int     `yaml:"k"`
	MinSeparationKm  *float64 `yaml:"min_separation_km"`
	ExcludeLandTypes []string `yaml:"exclude_land_types"`
	MaxSlope         *float64 `yaml:"max_slope"`
	MaxRounds        *int     `yaml:"max_rounds"`
	Seed             *int64   `yaml:"seed"`
}

// Default optimization parameters, matching the historical CLI defaults.
func Default() models.OptimizeParams {
	return models.OptimizeParams{
		K:                3,
		MinSeparationKm:  2.0,
		ExcludeLandTypes: []string{"wetland"},
		MaxSlope:         30.0,
		MaxRounds:        50,
	}
}

// Load reads a constraints file and overlays it on the defaults. An empty
// path returns the defaults unchanged.
func Load(path string) (models.OptimizeParams, error) {
	params := Default()
	if path == "" {
		return params, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return params, fmt.Errorf("failed to read constraints file: %w", err)
	}

	var c Constraints
	if err := yaml.Unmarshal(data, &c); err != nil {
		return params, fmt.Errorf("failed to parse constraints file: %w", err)
	}

	if c.K != nil {
		params.K = *c.K
	}
	if c.MinSeparationKm != nil {
		params.MinSeparationKm = *c.MinSeparationKm
	}
	if c.ExcludeLandTypes != nil {
		params.ExcludeLandTypes = c.ExcludeLandTypes
	}
	if c.MaxSlope != nil {
		params.MaxSlope = *c.MaxSlope
	}
	if c.MaxRounds != nil {
		params.MaxRounds = *c.MaxRounds
	}
	if c.Seed != nil {
		params.Seed = *c.Seed
	}

	if err := Validate(params); err != nil {
		return params, err
	}

	log.Printf("[CONFIG] Loaded constraints: path=%s k=%d min_sep_km=%.1f max_slope=%.1f exclude=%v",
		path, params.K, params.MinSeparationKm, params.MaxSlope, params.ExcludeLandTypes)
	return params, nil
}

// Validate rejects parameter combinations the optimizer cannot run with
func Validate(params models.OptimizeParams) error {
	if params.K < 1 {
		return fmt.Errorf("k must be a positive integer, got %d", params.K)
	}
	if params.MinSeparationKm < 0 {
		return fmt.Errorf("min_separation_km must be non-negative, got %g", params.MinSeparationKm)
	}
	if params.MaxRounds < 1 {
		return fmt.Errorf("max_rounds must be a positive integer, got %d", params.MaxRounds)
	}
	return nil
}
