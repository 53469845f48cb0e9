package database

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resource-center-placer/internal/distance"
	"resource-center-placer/internal/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func feasibleSolution() *models.Solution {
	return &models.Solution{
		Feasible:  true,
		TotalCost: 40,
		Centers: []models.Center{
			{ID: 1, Lat: 40.0, Lon: -75.0, LandType: "farmland", Slope: 5, Elevation: 200},
			{ID: 3, Lat: 40.2, Lon: -75.2, LandType: "forest", Slope: 10, Elevation: 350},
		},
		Assignments: []models.Assignment{
			{PointID: 1, CenterID: 1, DistanceMeters: 0},
			{PointID: 2, CenterID: 1, DistanceMeters: 10},
			{PointID: 3, CenterID: 3, DistanceMeters: 0},
			{PointID: 4, CenterID: 3, DistanceMeters: 30},
		},
		Diagnostics: models.Diagnostics{
			TotalPoints:    4,
			CandidateCount: 4,
			Rounds:         2,
		},
	}
}

func testParams() models.OptimizeParams {
	return models.OptimizeParams{
		K:                2,
		MinSeparationKm:  2.0,
		ExcludeLandTypes: []string{"wetland", "urban"},
		MaxSlope:         30,
		MaxRounds:        50,
		Seed:             42,
	}
}

func TestHealthCheck(t *testing.T) {
	db := setupTestDB(t)
	assert.NoError(t, db.HealthCheck(context.Background()))
}

func TestDistanceCacheRoundtrip(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	cache := db.DistanceCache()

	_, found, err := cache.Get(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, found)

	entries := []distance.Entry{
		{FromID: 1, ToID: 2, Meters: 12500},
		{FromID: 2, ToID: 1, Meters: 13100},
	}
	require.NoError(t, cache.SetBatch(ctx, entries))

	meters, found, err := cache.Get(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, found)
	assert.InDelta(t, 12500.0, meters, 1e-9)

	count, err := cache.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	all, err := cache.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDistanceCacheReplaceAndClear(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	cache := db.DistanceCache()

	require.NoError(t, cache.SetBatch(ctx, []distance.Entry{{FromID: 1, ToID: 2, Meters: 100}}))
	require.NoError(t, cache.SetBatch(ctx, []distance.Entry{{FromID: 1, ToID: 2, Meters: 250}}))

	meters, found, err := cache.Get(ctx, 1, 2)
	require.NoError(t, err)
	require.True(t, found)
	assert.InDelta(t, 250.0, meters, 1e-9)

	require.NoError(t, cache.Clear(ctx))
	count, err := cache.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRunCreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	run, err := db.Runs().Create(ctx, testParams(), feasibleSolution())
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Greater(t, run.ID, int64(0))
	assert.False(t, run.CreatedAt.IsZero())

	assert.Equal(t, testParams(), run.Params)
	assert.True(t, run.Solution.Feasible)
	assert.InDelta(t, 40.0, run.Solution.TotalCost, 1e-9)
	assert.Equal(t, 2, run.Solution.Diagnostics.Rounds)

	require.Len(t, run.Solution.Centers, 2)
	assert.Equal(t, 1, run.Solution.Centers[0].ID)
	assert.Equal(t, 3, run.Solution.Centers[1].ID)
	require.Len(t, run.Solution.Assignments, 4)
	assert.Equal(t, 2, run.Solution.Assignments[1].PointID)
	assert.InDelta(t, 10.0, run.Solution.Assignments[1].DistanceMeters, 1e-9)
}

func TestRunCreateInfeasible(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	solution := &models.Solution{
		Feasible:  false,
		TotalCost: models.InfeasibleCost,
		Centers:   []models.Center{},
		Diagnostics: models.Diagnostics{
			TotalPoints:    4,
			CandidateCount: 1,
		},
	}

	run, err := db.Runs().Create(ctx, testParams(), solution)
	require.NoError(t, err)

	assert.False(t, run.Solution.Feasible)
	assert.True(t, math.IsInf(run.Solution.TotalCost, 1))
	assert.Empty(t, run.Solution.Centers)
	assert.Empty(t, run.Solution.Assignments)
}

func TestRunGetMissing(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.Runs().GetByID(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRunList(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := db.Runs().Create(ctx, testParams(), feasibleSolution())
		require.NoError(t, err)
	}

	runs, total, err := db.Runs().List(ctx, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, runs, 2)

	// Newest first.
	assert.Greater(t, runs[0].ID, runs[1].ID)

	runs, total, err = db.Runs().List(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, runs, 1)
}

func TestRunDeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	run, err := db.Runs().Create(ctx, testParams(), feasibleSolution())
	require.NoError(t, err)

	require.NoError(t, db.Runs().Delete(ctx, run.ID))

	_, err = db.Runs().GetByID(ctx, run.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var centers int
	require.NoError(t, db.conn.QueryRow(`SELECT COUNT(*) FROM run_centers WHERE run_id = ?`, run.ID).Scan(&centers))
	assert.Equal(t, 0, centers)

	assert.ErrorIs(t, db.Runs().Delete(ctx, run.ID), ErrNotFound)
}
