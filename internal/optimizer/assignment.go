package optimizer

import (
	"math"

	"resource-center-placer/internal/models"
)

// assignments maps every point to its nearest medoid. The medoid set is
// scanned in order with a strict less-than comparison, so the earliest
// medoid wins ties.
func (o *Optimizer) assignments(medoids []int) []models.Assignment {
	result := make([]models.Assignment, len(o.points))

	for i := range o.points {
		minDist := math.Inf(1)
		best := -1

		for j, medoid := range medoids {
			dist := o.oracle.Distance(o.points[i].ID, o.points[medoid].ID)
			if dist < minDist {
				minDist = dist
				best = j
			}
		}

		result[i] = models.Assignment{
			PointID:        o.points[i].ID,
			CenterID:       o.points[medoids[best]].ID,
			DistanceMeters: minDist,
		}
	}

	return result
}
