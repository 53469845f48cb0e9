package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resource-center-placer/internal/distance"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPoints(t *testing.T) {
	path := writeFile(t, "points.csv",
		"id,latitude,longitude,resource_quantity\n"+
			"1,40.0,-75.0,2.5\n"+
			"2,40.1,-75.1,1.0\n")

	points, err := LoadPoints(path)

	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 1, points[0].ID)
	assert.InDelta(t, 40.0, points[0].Lat, 1e-9)
	assert.InDelta(t, -75.0, points[0].Lon, 1e-9)
	assert.InDelta(t, 2.5, points[0].ResourceQuantity, 1e-9)
	assert.Equal(t, "", points[0].LandType)
}

func TestLoadPointsRejectsMalformedRow(t *testing.T) {
	path := writeFile(t, "points.csv",
		"id,latitude,longitude,resource_quantity\n"+
			"1,not-a-number,-75.0,2.5\n")

	_, err := LoadPoints(path)

	assert.ErrorContains(t, err, "bad latitude")
}

func TestMergeZoneFeatures(t *testing.T) {
	pointsPath := writeFile(t, "points.csv",
		"id,latitude,longitude,resource_quantity\n"+
			"1,40.0,-75.0,1\n"+
			"2,40.1,-75.1,1\n"+
			"3,40.2,-75.2,1\n")
	zonesPath := writeFile(t, "zones.csv",
		"id,slope,elevation,land_type\n"+
			"1,12.5,300,farmland\n"+
			"2,40,150,wetland\n"+
			"9,5,100,forest\n")

	points, err := LoadPoints(pointsPath)
	require.NoError(t, err)

	zones, unmatched, err := MergeZoneFeatures(zonesPath, points)

	require.NoError(t, err)
	assert.Equal(t, 3, zones)
	assert.Equal(t, 1, unmatched) // zone 9 has no point

	assert.Equal(t, "farmland", points[0].LandType)
	assert.InDelta(t, 12.5, points[0].Slope, 1e-9)
	assert.InDelta(t, 300.0, points[0].Elevation, 1e-9)
	assert.Equal(t, "wetland", points[1].LandType)

	// Point 3 has no zone record and keeps its zero values.
	assert.Equal(t, "", points[2].LandType)
	assert.Equal(t, 0.0, points[2].Slope)
}

func TestLoadDistanceMatrixConvertsKilometers(t *testing.T) {
	pointsPath := writeFile(t, "points.csv",
		"id,latitude,longitude,resource_quantity\n"+
			"10,40.0,-75.0,1\n"+
			"20,40.1,-75.1,1\n")
	matrixPath := writeFile(t, "roads.csv",
		"id,10,20\n"+
			"10,0,12.5\n"+
			"20,13.1,0\n")

	points, err := LoadPoints(pointsPath)
	require.NoError(t, err)

	entries, err := LoadDistanceMatrix(matrixPath, points)

	require.NoError(t, err)
	require.Len(t, entries, 4)

	byPair := make(map[[2]int]float64)
	for _, e := range entries {
		byPair[[2]int{e.FromID, e.ToID}] = e.Meters
	}
	assert.InDelta(t, 12500.0, byPair[[2]int{10, 20}], 1e-9)
	assert.InDelta(t, 13100.0, byPair[[2]int{20, 10}], 1e-9)
	assert.InDelta(t, 0.0, byPair[[2]int{10, 10}], 1e-9)
}

func TestLoadWithOptionalInputsOmitted(t *testing.T) {
	pointsPath := writeFile(t, "points.csv",
		"id,latitude,longitude,resource_quantity\n"+
			"1,40.0,-75.0,1\n")

	points, entries, stats, err := Load(pointsPath, "", "")

	require.NoError(t, err)
	assert.Len(t, points, 1)
	assert.Empty(t, entries)
	assert.Equal(t, 1, stats.Points)
	assert.Equal(t, 0, stats.ZoneRecords)
	assert.Equal(t, 0, stats.DistanceEntries)
}

func TestLoadFullDataset(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	pointsPath := write("points.csv",
		"id,latitude,longitude,resource_quantity\n"+
			"1,40.0,-75.0,1\n"+
			"2,40.1,-75.1,2\n")
	zonesPath := write("zones.csv",
		"id,slope,elevation,land_type\n"+
			"1,10,200,farmland\n")
	matrixPath := write("roads.csv",
		"id,1,2\n"+
			"1,0,5\n"+
			"2,5,0\n")

	points, entries, stats, err := Load(pointsPath, zonesPath, matrixPath)

	require.NoError(t, err)
	assert.Len(t, points, 2)
	assert.Equal(t, 1, stats.ZoneRecords)
	assert.Equal(t, 0, stats.UnmatchedZones)
	assert.Equal(t, 1, stats.PointsWithoutZone)
	assert.Equal(t, 4, stats.DistanceEntries)

	var entry distance.Entry
	for _, e := range entries {
		if e.FromID == 1 && e.ToID == 2 {
			entry = e
		}
	}
	assert.InDelta(t, 5000.0, entry.Meters, 1e-9)
}
