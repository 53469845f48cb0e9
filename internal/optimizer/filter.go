package optimizer

import (
	"log"

	"resource-center-placer/internal/models"
)

// filterCandidates returns the indices of points eligible to host a center,
// in load order: land type not excluded and slope within the limit.
func filterCandidates(points []models.Point, excluded map[string]bool, maxSlope float64) []int {
	candidates := make([]int, 0, len(points))

	for i := range points {
		if excluded[points[i].LandType] {
			continue
		}
		if points[i].Slope > maxSlope {
			continue
		}
		candidates = append(candidates, i)
	}

	log.Printf("[FILTER] Valid candidates after filtering: total=%d candidates=%d", len(points), len(candidates))
	return candidates
}
