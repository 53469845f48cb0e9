package optimizer

import (
	"log"
	"math/rand"
)

// initializeMedoids builds a starting medoid set by randomized greedy
// selection. The first medoid is drawn uniformly from all candidates; each
// later slot is drawn uniformly from the candidates that keep the minimum
// separation to every medoid chosen so far. When no candidate qualifies, the
// partial set is returned as-is.
func (o *Optimizer) initializeMedoids(candidates []int, rng *rand.Rand) []int {
	medoids := make([]int, 0, o.params.K)
	if len(candidates) == 0 {
		return medoids
	}

	medoids = append(medoids, candidates[rng.Intn(len(candidates))])

	for len(medoids) < o.params.K {
		validNext := make([]int, 0, len(candidates))
		for _, candidate := range candidates {
			if containsIndex(medoids, candidate) {
				continue
			}
			if o.satisfiesSeparation(medoids, candidate) {
				validNext = append(validNext, candidate)
			}
		}

		if len(validNext) == 0 {
			log.Printf("[INIT] Separation constraint unsatisfiable: requested=%d placed=%d", o.params.K, len(medoids))
			break
		}

		medoids = append(medoids, validNext[rng.Intn(len(validNext))])
	}

	return medoids
}

// satisfiesSeparation reports whether candidate keeps the minimum
// separation to every current medoid.
func (o *Optimizer) satisfiesSeparation(medoids []int, candidate int) bool {
	minSep := o.params.MinSeparationMeters()
	for _, medoid := range medoids {
		if o.oracle.Distance(o.points[candidate].ID, o.points[medoid].ID) < minSep {
			return false
		}
	}
	return true
}

func containsIndex(indexes []int, target int) bool {
	for _, idx := range indexes {
		if idx == target {
			return true
		}
	}
	return false
}
