//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"shipalong/internal/domain/capacity"
	reqdto "shipalong/internal/handler/dto/request"
	"shipalong/internal/infra"
	"shipalong/internal/infra/db"
	"shipalong/internal/pkg/errs"
	"shipalong/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	trips map[uuid.UUID]*capacity.TripCapacity
}

func (r *fakeReader) FindByTripID(_ context.Context, _ db.DBTX, tripID uuid.UUID) (*capacity.TripCapacity, error) {
	tc, ok := r.trips[tripID]
	if !ok {
		return nil, infra.WrapRepoErr("trip capacity not found", nil, infra.KindNotFound)
	}
	return tc, nil
}

type fakeScanner struct {
	leases []*capacity.Lease
}

func (s *fakeScanner) ScanByTrip(_ context.Context, _ uuid.UUID) ([]*capacity.Lease, error) {
	return s.leases, nil
}

func newQueriesFixture(t *testing.T, available capacity.Vector, status capacity.TripStatus, leases []*capacity.Lease) (queries.CapacityQueries, uuid.UUID) {
	t.Helper()

	tripID := uuid.New()
	total := capacity.Vector{Weight: 100, Volume: 200, Items: 10}
	reader := &fakeReader{trips: map[uuid.UUID]*capacity.TripCapacity{
		tripID: capacity.ReconstructTripCapacity(tripID, total, available, status, time.Now()),
	}}
	return queries.NewCapacityQueries(reader, &fakeScanner{leases: leases}, nil), tripID
}

func TestCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("sufficient capacity", func(t *testing.T) {
		q, tripID := newQueriesFixture(t, capacity.Vector{Weight: 50, Volume: 100, Items: 5}, capacity.TripStatusUpcoming, nil)

		view, err := q.Check(ctx, tripID, reqdto.CheckCapacityRequest{
			Required: reqdto.CapacityVectorPayload{Weight: 25, Volume: 50, Items: 1},
		})
		require.NoError(t, err)
		assert.True(t, view.CanFit)
		assert.Equal(t, 50.0, view.UtilizationPct["weight"])
		assert.True(t, view.Dimensions["items"].Sufficient)
	})

	t.Run("one dimension short fails the whole check", func(t *testing.T) {
		q, tripID := newQueriesFixture(t, capacity.Vector{Weight: 50, Volume: 100, Items: 0}, capacity.TripStatusUpcoming, nil)

		view, err := q.Check(ctx, tripID, reqdto.CheckCapacityRequest{
			Required: reqdto.CapacityVectorPayload{Weight: 1, Volume: 1, Items: 1},
		})
		require.NoError(t, err)
		assert.False(t, view.CanFit)
		assert.True(t, view.Dimensions["weight"].Sufficient)
		assert.False(t, view.Dimensions["items"].Sufficient)
	})

	t.Run("trip not accepting reservations", func(t *testing.T) {
		q, tripID := newQueriesFixture(t, capacity.Vector{Weight: 50, Volume: 100, Items: 5}, capacity.TripStatusCompleted, nil)

		_, err := q.Check(ctx, tripID, reqdto.CheckCapacityRequest{
			Required: reqdto.CapacityVectorPayload{Weight: 1, Volume: 1, Items: 1},
		})
		require.ErrorIs(t, err, errs.ErrTripNotAvailable)
	})

	t.Run("unknown trip", func(t *testing.T) {
		q, _ := newQueriesFixture(t, capacity.Vector{}, capacity.TripStatusUpcoming, nil)

		_, err := q.Check(ctx, uuid.New(), reqdto.CheckCapacityRequest{})
		require.ErrorIs(t, err, errs.ErrTripNotFound)
	})
}

func TestStatus(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	tripID := uuid.New()

	reserved, err := capacity.NewLease(tripID, "res-1", capacity.Vector{Weight: 10, Volume: 10, Items: 1}, now, 15*time.Minute)
	require.NoError(t, err)
	confirmed, err := capacity.NewLease(tripID, "res-2", capacity.Vector{Weight: 5, Volume: 5, Items: 1}, now, 15*time.Minute)
	require.NoError(t, err)
	confirmed.Confirm(uuid.New(), now)

	q, tripID := newQueriesFixture(t, capacity.Vector{Weight: 85, Volume: 185, Items: 8}, capacity.TripStatusUpcoming,
		[]*capacity.Lease{reserved, confirmed})

	view, err := q.Status(ctx, tripID)
	require.NoError(t, err)
	assert.Equal(t, "upcoming", view.Status)
	assert.Equal(t, capacity.Vector{Weight: 100, Volume: 200, Items: 10}, view.Total)
	assert.Equal(t, capacity.Vector{Weight: 85, Volume: 185, Items: 8}, view.Available)
	assert.Equal(t, 1, view.ActiveLeaseCount)
	assert.InDelta(t, 15.0, view.Utilization.Weight, 0.001)
}

func TestOptimizeAllocation(t *testing.T) {
	ctx := context.Background()

	t.Run("partitions candidates and reports reasons", func(t *testing.T) {
		q, tripID := newQueriesFixture(t, capacity.Vector{Weight: 10, Volume: 20, Items: 5}, capacity.TripStatusUpcoming, nil)

		volumeA, volumeB, volumeC := 5.0, 5.0, 5.0
		view, err := q.OptimizeAllocation(ctx, tripID, reqdto.OptimizeAllocationRequest{
			Candidates: []reqdto.CandidateItemPayload{
				{ID: "A", Weight: 4, Volume: &volumeA, Value: 40},
				{ID: "B", Weight: 8, Volume: &volumeB, Value: 50},
				{ID: "C", Weight: 2, Volume: &volumeC, Value: 15},
			},
		})
		require.NoError(t, err)

		accepted := map[string]bool{}
		for _, candidate := range view.Candidates {
			accepted[candidate.ID] = candidate.Accepted
			if !candidate.Accepted {
				assert.NotEmpty(t, candidate.Reason)
			}
		}
		assert.True(t, accepted["A"])
		assert.True(t, accepted["C"])
		assert.False(t, accepted["B"])
		assert.Equal(t, capacity.Vector{Weight: 4, Volume: 10, Items: 3}, view.RemainingCapacity)
		assert.Equal(t, 55.0, view.TotalValue)
	})

	t.Run("volume derived from dimensions", func(t *testing.T) {
		q, tripID := newQueriesFixture(t, capacity.Vector{Weight: 10, Volume: 20, Items: 5}, capacity.TripStatusUpcoming, nil)

		view, err := q.OptimizeAllocation(ctx, tripID, reqdto.OptimizeAllocationRequest{
			Candidates: []reqdto.CandidateItemPayload{
				{ID: "boxed", Weight: 1, Dimensions: &reqdto.DimensionsPayload{Length: 2, Width: 3, Height: 0.5}, Value: 10},
			},
		})
		require.NoError(t, err)
		require.Len(t, view.Candidates, 1)
		assert.Equal(t, 3.0, view.Candidates[0].Required.Volume)
	})

	t.Run("urgent candidate wins the only slot", func(t *testing.T) {
		q, tripID := newQueriesFixture(t, capacity.Vector{Weight: 10, Volume: 20, Items: 1}, capacity.TripStatusUpcoming, nil)

		volume := 5.0
		view, err := q.OptimizeAllocation(ctx, tripID, reqdto.OptimizeAllocationRequest{
			Candidates: []reqdto.CandidateItemPayload{
				{ID: "plain", Weight: 4, Volume: &volume, Value: 40},
				{ID: "rush", Weight: 4, Volume: &volume, Value: 30, Priority: "urgent"},
			},
		})
		require.NoError(t, err)

		for _, candidate := range view.Candidates {
			switch candidate.ID {
			case "rush":
				assert.True(t, candidate.Accepted)
				assert.Equal(t, "urgent", candidate.Priority)
			case "plain":
				assert.False(t, candidate.Accepted)
				assert.Equal(t, "normal", candidate.Priority)
			}
		}
	})

	t.Run("candidate without volume or dimensions", func(t *testing.T) {
		q, tripID := newQueriesFixture(t, capacity.Vector{Weight: 10, Volume: 20, Items: 5}, capacity.TripStatusUpcoming, nil)

		_, err := q.OptimizeAllocation(ctx, tripID, reqdto.OptimizeAllocationRequest{
			Candidates: []reqdto.CandidateItemPayload{{ID: "bare", Weight: 1, Value: 10}},
		})
		require.ErrorIs(t, err, errs.ErrInvalidCapacityVector)
	})
}
