package testutil

import (
	"math"

	"resource-center-placer/internal/models"
)

// MockOracle is a deterministic distance oracle for tests. Pairs without an
// explicit override fall back to scaled Euclidean distance over the point
// coordinates.
type MockOracle struct {
	ScaleFactor float64
	Overrides   map[[2]int]float64
	Calls       int

	coords map[int]models.Coordinates
}

// NewMockOracle creates a mock oracle over the given points
func NewMockOracle(points []models.Point) *MockOracle {
	coords := make(map[int]models.Coordinates, len(points))
	for i := range points {
		coords[points[i].ID] = points[i].Coords()
	}
	return &MockOracle{
		ScaleFactor: 111000, // 1 degree ≈ 111km in meters
		Overrides:   make(map[[2]int]float64),
		coords:      coords,
	}
}

// SetDistance sets a custom distance for a directional pair
func (m *MockOracle) SetDistance(fromID, toID int, meters float64) {
	m.Overrides[[2]int{fromID, toID}] = meters
}

// SetSymmetric sets the same distance for both directions of a pair
func (m *MockOracle) SetSymmetric(a, b int, meters float64) {
	m.SetDistance(a, b, meters)
	m.SetDistance(b, a, meters)
}

// Distance returns the override for the pair when present, zero for a point
// paired with itself, and scaled Euclidean distance otherwise.
func (m *MockOracle) Distance(fromID, toID int) float64 {
	m.Calls++

	if meters, ok := m.Overrides[[2]int{fromID, toID}]; ok {
		return meters
	}
	if fromID == toID {
		return 0
	}

	from := m.coords[fromID]
	to := m.coords[toID]
	dLat := to.Lat - from.Lat
	dLon := to.Lon - from.Lon
	return math.Sqrt(dLat*dLat+dLon*dLon) * m.ScaleFactor
}
