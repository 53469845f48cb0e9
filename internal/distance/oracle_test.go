package distance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resource-center-placer/internal/models"
)

func testPoints() []models.Point {
	return []models.Point{
		{ID: 1, Lat: 40.0, Lon: -75.0},
		{ID: 2, Lat: 41.0, Lon: -75.0},
		{ID: 3, Lat: 40.5, Lon: -74.5},
	}
}

func TestTableOracleReturnsTableEntries(t *testing.T) {
	oracle := NewTableOracle(testPoints())
	oracle.SetEntry(1, 2, 12500)

	assert.InDelta(t, 12500.0, oracle.Distance(1, 2), 1e-9)
	assert.Equal(t, 0, oracle.FallbackCount())
}

func TestTableOracleHonorsAsymmetricEntries(t *testing.T) {
	oracle := NewTableOracle(testPoints())
	oracle.Load([]Entry{
		{FromID: 1, ToID: 2, Meters: 12500},
		{FromID: 2, ToID: 1, Meters: 13100},
	})

	assert.InDelta(t, 12500.0, oracle.Distance(1, 2), 1e-9)
	assert.InDelta(t, 13100.0, oracle.Distance(2, 1), 1e-9)
}

func TestTableOracleFallsBackToHaversine(t *testing.T) {
	oracle := NewTableOracle(testPoints())

	got := oracle.Distance(1, 2)
	want := Haversine(models.Coordinates{Lat: 40.0, Lon: -75.0}, models.Coordinates{Lat: 41.0, Lon: -75.0})

	assert.InDelta(t, want, got, 1e-6)
	assert.Equal(t, 1, oracle.FallbackCount())
}

func TestTableOracleDrainFallbacks(t *testing.T) {
	oracle := NewTableOracle(testPoints())

	oracle.Distance(1, 2)
	oracle.Distance(1, 3)
	oracle.Distance(1, 2) // repeat pair, still one record

	entries := oracle.DrainFallbacks()
	require.Len(t, entries, 2)
	assert.Equal(t, 0, oracle.FallbackCount())

	for _, e := range entries {
		assert.Greater(t, e.Meters, 0.0)
	}
}

func TestTableOracleUnknownPoint(t *testing.T) {
	oracle := NewTableOracle(testPoints())

	assert.Equal(t, 0.0, oracle.Distance(1, 999))
	assert.Equal(t, 0, oracle.FallbackCount())
}

func TestHaversineOneDegreeOfLatitude(t *testing.T) {
	a := models.Coordinates{Lat: 40.0, Lon: -75.0}
	b := models.Coordinates{Lat: 41.0, Lon: -75.0}

	got := Haversine(a, b)

	// One degree of latitude is about 111.2 km.
	assert.InDelta(t, 111195.0, got, 111195.0*0.005)
}

func TestHaversineZeroForSamePoint(t *testing.T) {
	p := models.Coordinates{Lat: 40.0, Lon: -75.0}
	assert.Equal(t, 0.0, Haversine(p, p))
}
