package optimizer

import (
	"context"
	"log"
	"math"
)

// DefaultMaxRounds bounds the local search when the caller does not set a
// round cap.
const DefaultMaxRounds = 50

// localSearch improves the medoid set by first-improvement swaps. For each
// medoid position, in order, every non-member candidate is tried as a
// replacement; a trial that keeps all pairwise separations and strictly
// lowers total cost is committed immediately, so later positions in the same
// round operate on the improved set. The search stops after a full round
// without a commit or when the round cap is reached, whichever comes first.
// Returns the final set, its cost, and the number of rounds executed.
func (o *Optimizer) localSearch(ctx context.Context, medoids []int, candidates []int) ([]int, float64, int, error) {
	current := make([]int, len(medoids))
	copy(current, medoids)
	cost := o.totalCost(current)

	maxRounds := o.params.MaxRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}

	log.Printf("[SEARCH] Initial cost: %.2f", cost)

	improved := true
	rounds := 0

	for improved && rounds < maxRounds {
		if err := ctx.Err(); err != nil {
			return current, cost, rounds, err
		}

		improved = false
		rounds++

		for i := range current {
			for _, candidate := range candidates {
				if containsIndex(current, candidate) {
					continue
				}

				trial := make([]int, len(current))
				copy(trial, current)
				trial[i] = candidate

				if !o.pairwiseSeparated(trial) {
					continue
				}

				trialCost := o.totalCost(trial)
				if trialCost < cost {
					current = trial
					cost = trialCost
					improved = true
				}
			}
		}

		if improved {
			log.Printf("[SEARCH] Round %d: cost=%.2f", rounds, cost)
		}
	}

	log.Printf("[SEARCH] Converged: rounds=%d cost=%.2f", rounds, cost)
	return current, cost, rounds, nil
}

// pairwiseSeparated checks the separation constraint over every pair in the
// set, not just pairs involving a changed member.
func (o *Optimizer) pairwiseSeparated(medoids []int) bool {
	minSep := o.params.MinSeparationMeters()
	for i := 0; i < len(medoids); i++ {
		for j := i + 1; j < len(medoids); j++ {
			if o.oracle.Distance(o.points[medoids[i]].ID, o.points[medoids[j]].ID) < minSep {
				return false
			}
		}
	}
	return true
}

// totalCost sums, over every loaded point, the resource-weighted distance to
// the nearest medoid in the set.
func (o *Optimizer) totalCost(medoids []int) float64 {
	total := 0.0

	for i := range o.points {
		minDist := math.Inf(1)
		for _, medoid := range medoids {
			dist := o.oracle.Distance(o.points[i].ID, o.points[medoid].ID)
			if dist < minDist {
				minDist = dist
			}
		}
		total += minDist * o.points[i].ResourceQuantity
	}

	return total
}
