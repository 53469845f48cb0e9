package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimizeParamsMinSeparationMeters(t *testing.T) {
	p := OptimizeParams{MinSeparationKm: 2.5}
	assert.InDelta(t, 2500.0, p.MinSeparationMeters(), 1e-9)
}

func TestOptimizeParamsExcludedSet(t *testing.T) {
	p := OptimizeParams{ExcludeLandTypes: []string{"wetland", "urban"}}

	set := p.ExcludedSet()
	assert.True(t, set["wetland"])
	assert.True(t, set["urban"])
	assert.False(t, set["farmland"])
}

func TestSolutionMarshalFeasible(t *testing.T) {
	s := Solution{Feasible: true, TotalCost: 40, Centers: []Center{{ID: 1}}}

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 40.0, decoded["total_cost"])
	assert.Equal(t, true, decoded["feasible"])
}

func TestSolutionMarshalInfeasibleCost(t *testing.T) {
	s := Solution{Feasible: false, TotalCost: InfeasibleCost}

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Nil(t, decoded["total_cost"])
}
