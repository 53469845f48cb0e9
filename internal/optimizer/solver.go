package optimizer

import (
	"context"
	"log"
	"math/rand"
	"time"

	"resource-center-placer/internal/distance"
	"resource-center-placer/internal/models"
)

// Optimizer places k collection centers among the loaded points, minimizing
// total resource-weighted travel distance under land-type, slope, and
// minimum-separation constraints.
type Optimizer struct {
	points []models.Point
	oracle distance.Oracle
	params models.OptimizeParams
}

// New creates an optimizer over the loaded points
func New(points []models.Point, oracle distance.Oracle, params models.OptimizeParams) *Optimizer {
	return &Optimizer{
		points: points,
		oracle: oracle,
		params: params,
	}
}

// Solve runs filtering, constrained initialization, and swap local search,
// then resolves assignments for the final medoid set. A candidate pool
// smaller than k yields an infeasible solution, not an error; the only error
// path is context cancellation, checked once per search round.
//
// Runs with the same seed and identical inputs produce identical solutions.
// A zero seed draws one from the clock.
func (o *Optimizer) Solve(ctx context.Context) (*models.Solution, error) {
	seed := o.params.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	candidates := filterCandidates(o.points, o.params.ExcludedSet(), o.params.MaxSlope)

	if o.params.K < 1 || len(candidates) < o.params.K {
		log.Printf("[SEARCH] Not enough valid candidates: candidates=%d k=%d", len(candidates), o.params.K)
		return &models.Solution{
			Feasible:  false,
			Centers:   []models.Center{},
			TotalCost: models.InfeasibleCost,
			Diagnostics: models.Diagnostics{
				TotalPoints:    len(o.points),
				CandidateCount: len(candidates),
			},
		}, nil
	}

	medoids := o.initializeMedoids(candidates, rng)
	degraded := len(medoids) < o.params.K

	medoids, cost, rounds, err := o.localSearch(ctx, medoids, candidates)
	if err != nil {
		return nil, err
	}

	solution := &models.Solution{
		Feasible:    true,
		Centers:     o.centers(medoids),
		TotalCost:   cost,
		Assignments: o.assignments(medoids),
		Diagnostics: models.Diagnostics{
			TotalPoints:    len(o.points),
			CandidateCount: len(candidates),
			Rounds:         rounds,
			Degraded:       degraded,
		},
	}

	if table, ok := o.oracle.(*distance.TableOracle); ok {
		solution.Diagnostics.FallbackLookups = table.FallbackCount()
	}

	return solution, nil
}

// centers materializes the chosen medoid indices as reportable center
// records.
func (o *Optimizer) centers(medoids []int) []models.Center {
	result := make([]models.Center, len(medoids))
	for i, medoid := range medoids {
		p := o.points[medoid]
		result[i] = models.Center{
			ID:        p.ID,
			Lat:       p.Lat,
			Lon:       p.Lon,
			LandType:  p.LandType,
			Slope:     p.Slope,
			Elevation: p.Elevation,
		}
	}
	return result
}
