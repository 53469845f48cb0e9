package render

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resource-center-placer/internal/models"
)

func TestSolutionMapWritesDecodablePNG(t *testing.T) {
	points := []models.Point{
		{ID: 1, Lat: 40.0, Lon: -75.0, ResourceQuantity: 2},
		{ID: 2, Lat: 40.1, Lon: -75.1, ResourceQuantity: 1},
		{ID: 3, Lat: 40.2, Lon: -75.2, ResourceQuantity: 3},
	}
	solution := &models.Solution{
		Feasible:  true,
		TotalCost: 40,
		Centers:   []models.Center{{ID: 1, Lat: 40.0, Lon: -75.0}},
	}

	path := filepath.Join(t.TempDir(), "solution.png")
	opts := Options{Width: 400, Height: 300, Padding: 20}

	require.NoError(t, SolutionMap(path, points, solution, opts))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())
}

func TestSolutionMapInfeasibleSolution(t *testing.T) {
	points := []models.Point{
		{ID: 1, Lat: 40.0, Lon: -75.0, ResourceQuantity: 1},
	}
	solution := &models.Solution{Feasible: false, TotalCost: models.InfeasibleCost}

	path := filepath.Join(t.TempDir(), "solution.png")
	require.NoError(t, SolutionMap(path, points, solution, DefaultOptions()))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestSolutionMapNoPoints(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solution.png")
	err := SolutionMap(path, nil, &models.Solution{}, DefaultOptions())
	assert.Error(t, err)
}
