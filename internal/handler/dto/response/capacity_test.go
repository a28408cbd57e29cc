//go:build unit

package response_test

import (
	"testing"
	"time"

	"shipalong/internal/domain/capacity"
	"shipalong/internal/handler/dto/response"
	"shipalong/internal/usecase/commands"
	"shipalong/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromReserveResult(t *testing.T) {
	expiresAt := time.Date(2026, 3, 1, 12, 15, 0, 0, time.UTC)
	resp, err := response.FromReserveResult(&commands.ReserveResult{
		ReservationID: "res-1",
		Reserved:      capacity.Vector{Weight: 10, Volume: 20, Items: 2},
		Available:     capacity.Vector{Weight: 90, Volume: 180, Items: 8},
		ExpiresAt:     expiresAt,
	})
	require.NoError(t, err)
	assert.Equal(t, "res-1", resp.ReservationID)
	assert.Equal(t, response.VectorResponse{Weight: 10, Volume: 20, Items: 2}, resp.Reserved)
	assert.Equal(t, response.VectorResponse{Weight: 90, Volume: 180, Items: 8}, resp.Available)
	assert.True(t, expiresAt.Equal(resp.ExpiresAt))
}

// The check view carries nested maps whose element types differ from
// the response shape; the mapping must carry every entry over rather
// than ship a zero-valued body.
func TestFromCapacityCheckView(t *testing.T) {
	view := &queries.CapacityCheckView{
		TripID: uuid.New(),
		CanFit: false,
		Dimensions: map[string]queries.DimensionCheckView{
			"weight": {Available: 90, Required: 100, Sufficient: false},
			"volume": {Available: 180, Required: 20, Sufficient: true},
			"items":  {Available: 8, Required: 2, Sufficient: true},
		},
		UtilizationPct: map[string]float64{"weight": 10, "volume": 10, "items": 20},
	}

	resp, err := response.FromCapacityCheckView(view)
	require.NoError(t, err)
	assert.Equal(t, view.TripID, resp.TripID)
	assert.False(t, resp.CanFit)
	require.Len(t, resp.Dimensions, 3)
	assert.Equal(t, response.DimensionCheckResponse{Available: 90, Required: 100, Sufficient: false}, resp.Dimensions["weight"])
	assert.Equal(t, response.DimensionCheckResponse{Available: 180, Required: 20, Sufficient: true}, resp.Dimensions["volume"])
	require.Len(t, resp.UtilizationPct, 3)
	assert.InDelta(t, 20, resp.UtilizationPct["items"], 1e-9)
}

func TestFromAllocationPlanView(t *testing.T) {
	view := &queries.AllocationPlanView{
		TripID: uuid.New(),
		Candidates: []queries.CandidateResultView{
			{ID: "A", Required: capacity.Vector{Weight: 4, Volume: 5, Items: 1}, Value: 40, Priority: "normal", Accepted: true},
			{ID: "B", Value: 50, Priority: "urgent", Accepted: false, Reason: "insufficient capacity"},
		},
		RemainingCapacity: capacity.Vector{Weight: 6, Volume: 15, Items: 4},
		TotalValue:        40,
		Recommendations: []queries.RecommendationView{
			{Code: "capacity_exceeded", Message: "not all candidates fit"},
		},
	}

	resp, err := response.FromAllocationPlanView(view)
	require.NoError(t, err)
	require.Len(t, resp.Candidates, 2)
	assert.Equal(t, "A", resp.Candidates[0].ID)
	assert.True(t, resp.Candidates[0].Accepted)
	assert.Equal(t, response.VectorResponse{Weight: 4, Volume: 5, Items: 1}, resp.Candidates[0].Required)
	assert.Equal(t, "insufficient capacity", resp.Candidates[1].Reason)
	require.Len(t, resp.Recommendations, 1)
	assert.Equal(t, "capacity_exceeded", resp.Recommendations[0].Code)
	assert.InDelta(t, 40, resp.TotalValue, 1e-9)
}
