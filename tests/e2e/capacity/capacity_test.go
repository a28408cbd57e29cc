//go:build e2e

package capacity_test

import (
	"fmt"
	"net/http"
	"sync"
	"testing"

	"shipalong/internal/handler/dto/response"
	"shipalong/tests/common/dbtest"
	"shipalong/tests/common/httptest"
	"shipalong/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	capacityURL   = "/api/trips/%s/capacity"
	checkURL      = "/api/trips/%s/capacity/check"
	reserveURL    = "/api/trips/%s/capacity/reserve"
	confirmURL    = "/api/trips/%s/capacity/confirm"
	releaseURL    = "/api/trips/%s/capacity/release"
	releaseAllURL = "/api/trips/%s/capacity/release-all"
	statusURL     = "/api/trips/%s/capacity/status"
	optimizeURL   = "/api/trips/%s/capacity/optimize"
)

type CapacitySuite struct {
	e2e.SharedSuite
}

func (s *CapacitySuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestCapacitySuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(CapacitySuite))
}

func vectorBody(weight, volume float64, items int) map[string]any {
	return map[string]any{"weight": weight, "volume": volume, "items": items}
}

func (s *CapacitySuite) reserve(tripID uuid.UUID, reservationID string, weight, volume float64, items int) *response.ReserveCapacityResponse {
	t := s.T()

	w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(reserveURL, tripID),
		map[string]any{
			"reservation_id": reservationID,
			"required":       vectorBody(weight, volume, items),
		})
	require.Equal(t, http.StatusCreated, w.Code, "Reservation should succeed: %s", w.Body.String())

	var res response.ReserveCapacityResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
	return &res
}

// =============================================================================
// TestCreateCapacity - Trip capacity registration API tests
// =============================================================================

func (s *CapacitySuite) TestCreateCapacity() {
	s.Run("Normal case: Registers capacity with full availability", func() {
		t := s.T()
		tripID := uuid.New()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(capacityURL, tripID),
			map[string]any{"weight_capacity": 1000.0, "volume_capacity": 50.0, "item_capacity": 20})

		var created response.TripCapacityResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &created)
		require.Equal(t, tripID, created.TripID)
		require.Equal(t, "upcoming", created.Status)
		require.Equal(t, created.Total, created.Available)
	})

	s.Run("Error case: Duplicate registration returns 409", func() {
		t := s.T()
		tripID := dbtest.CreateTestTripCapacity(t, s.DB, 1000, 50, 20)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(capacityURL, tripID),
			map[string]any{"weight_capacity": 1.0, "volume_capacity": 1.0, "item_capacity": 1})
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "already exists")
	})

	s.Run("Error case: Zero capacity vector returns 400", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(capacityURL, uuid.New()),
			map[string]any{"weight_capacity": 0.0, "volume_capacity": 0.0, "item_capacity": 0})
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "Invalid request")
	})
}

// =============================================================================
// TestReserveAndRelease - Hold lifecycle over HTTP
// =============================================================================

func (s *CapacitySuite) TestReserveAndRelease() {
	s.Run("Normal case: Reserve debits availability and release restores it", func() {
		t := s.T()
		tripID := dbtest.CreateTestTripCapacity(t, s.DB, 100, 200, 10)

		reserved := s.reserve(tripID, "res-1", 10, 20, 2)
		require.Equal(t, "res-1", reserved.ReservationID)
		require.InDelta(t, 90, reserved.Available.Weight, 1e-9)
		require.Equal(t, 8, reserved.Available.Items)
		require.False(t, reserved.ExpiresAt.IsZero())

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(releaseURL, tripID),
			map[string]any{"reservation_id": "res-1"})

		var released response.ReleaseCapacityResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &released)
		require.InDelta(t, 100, released.Available.Weight, 1e-9)
		require.Equal(t, 10, released.Available.Items)
	})

	s.Run("Normal case: Retrying with the same reservation id debits only once", func() {
		t := s.T()
		tripID := dbtest.CreateTestTripCapacity(t, s.DB, 100, 200, 10)

		first := s.reserve(tripID, "same-token", 10, 20, 2)
		second := s.reserve(tripID, "same-token", 10, 20, 2)
		require.Equal(t, first.ReservationID, second.ReservationID)
		require.InDelta(t, 90, second.Available.Weight, 1e-9)
		require.Equal(t, 8, second.Available.Items)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(releaseURL, tripID),
			map[string]any{"reservation_id": "same-token"})
		var released response.ReleaseCapacityResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &released)
		require.InDelta(t, 100, released.Available.Weight, 1e-9)
		require.InDelta(t, 200, released.Available.Volume, 1e-9)
		require.Equal(t, 10, released.Available.Items)
	})

	s.Run("Error case: Same reservation id with a different vector returns 409", func() {
		t := s.T()
		tripID := dbtest.CreateTestTripCapacity(t, s.DB, 100, 200, 10)
		s.reserve(tripID, "same-token", 10, 20, 2)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(reserveURL, tripID),
			map[string]any{
				"reservation_id": "same-token",
				"required":       vectorBody(5, 5, 1),
			})
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "Reservation already exists")

		sw := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(capacityURL, tripID), nil)
		var status response.CapacityStatusResponse
		httptest.AssertSuccessResponse(t, sw, http.StatusOK, &status)
		require.InDelta(t, 90, status.Available.Weight, 1e-9)
		require.Equal(t, 1, status.ActiveLeaseCount)
	})

	s.Run("Error case: Reservation beyond availability returns 409 with no debit", func() {
		t := s.T()
		tripID := dbtest.CreateTestTripCapacity(t, s.DB, 100, 200, 10)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(reserveURL, tripID),
			map[string]any{
				"reservation_id": "res-big",
				"required":       vectorBody(500, 1, 1),
			})
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "Insufficient capacity")

		sw := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(capacityURL, tripID), nil)
		var status response.CapacityStatusResponse
		httptest.AssertSuccessResponse(t, sw, http.StatusOK, &status)
		require.InDelta(t, 100, status.Available.Weight, 1e-9)
		require.Equal(t, 0, status.ActiveLeaseCount)
	})

	s.Run("Error case: Releasing twice returns 404", func() {
		t := s.T()
		tripID := dbtest.CreateTestTripCapacity(t, s.DB, 100, 200, 10)
		s.reserve(tripID, "res-1", 10, 20, 2)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(releaseURL, tripID),
			map[string]any{"reservation_id": "res-1"})
		require.Equal(t, http.StatusOK, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(releaseURL, tripID),
			map[string]any{"reservation_id": "res-1"})
		httptest.AssertErrorResponse(t, w, http.StatusNotFound, "Reservation not found")
	})

	s.Run("Error case: Reservation against a non-upcoming trip returns 409", func() {
		t := s.T()
		tripID := dbtest.CreateTestTripCapacity(t, s.DB, 100, 200, 10)
		dbtest.SetTripStatus(t, s.DB, tripID, "active")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(reserveURL, tripID),
			map[string]any{
				"reservation_id": "res-1",
				"required":       vectorBody(1, 1, 1),
			})
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "not available")
	})

	s.Run("Error case: Unknown trip returns 404", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(reserveURL, uuid.New()),
			map[string]any{
				"reservation_id": "res-1",
				"required":       vectorBody(1, 1, 1),
			})
		httptest.AssertErrorResponse(t, w, http.StatusNotFound, "Trip not found")
	})
}

// =============================================================================
// TestConcurrentReserves - Oversell protection under parallel load
// =============================================================================

func (s *CapacitySuite) TestConcurrentReserves() {
	s.Run("Normal case: Parallel reservations never exceed item capacity", func() {
		t := s.T()
		tripID := dbtest.CreateTestTripCapacity(t, s.DB, 1000, 1000, 5)

		const attempts = 20
		results := make(chan int, attempts)
		var wg sync.WaitGroup
		for i := range attempts {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(reserveURL, tripID),
					map[string]any{
						"reservation_id": fmt.Sprintf("res-%d", n),
						"required":       vectorBody(1, 1, 1),
					})
				results <- w.Code
			}(i)
		}
		wg.Wait()
		close(results)

		succeeded := 0
		for code := range results {
			switch code {
			case http.StatusCreated:
				succeeded++
			case http.StatusConflict:
			default:
				t.Fatalf("unexpected status %d", code)
			}
		}
		require.Equal(t, 5, succeeded)

		sw := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(capacityURL, tripID), nil)
		var status response.CapacityStatusResponse
		httptest.AssertSuccessResponse(t, sw, http.StatusOK, &status)
		require.Equal(t, 0, status.Available.Items)
		require.Equal(t, 5, status.ActiveLeaseCount)
	})
}

// =============================================================================
// TestConfirm - Confirmation semantics
// =============================================================================

func (s *CapacitySuite) TestConfirm() {
	s.Run("Normal case: Confirm keeps capacity debited and is idempotent", func() {
		t := s.T()
		tripID := dbtest.CreateTestTripCapacity(t, s.DB, 100, 200, 10)
		deliveryID := uuid.New()
		s.reserve(tripID, "res-1", 10, 20, 2)

		body := map[string]any{"reservation_id": "res-1", "delivery_id": deliveryID.String()}

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(confirmURL, tripID), body)
		var confirmed response.ConfirmReservationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &confirmed)
		require.Equal(t, deliveryID, confirmed.DeliveryID)

		// Second confirm succeeds and reports the original delivery
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(confirmURL, tripID), body)
		var again response.ConfirmReservationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &again)
		require.Equal(t, deliveryID, again.DeliveryID)

		sw := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(capacityURL, tripID), nil)
		var status response.CapacityStatusResponse
		httptest.AssertSuccessResponse(t, sw, http.StatusOK, &status)
		require.InDelta(t, 90, status.Available.Weight, 1e-9)
	})

	s.Run("Error case: Confirmed reservation cannot be released", func() {
		t := s.T()
		tripID := dbtest.CreateTestTripCapacity(t, s.DB, 100, 200, 10)
		s.reserve(tripID, "res-1", 10, 20, 2)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(confirmURL, tripID),
			map[string]any{"reservation_id": "res-1", "delivery_id": uuid.New().String()})
		require.Equal(t, http.StatusOK, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(releaseURL, tripID),
			map[string]any{"reservation_id": "res-1"})
		httptest.AssertErrorResponse(t, w, http.StatusNotFound, "Reservation not found")
	})

	s.Run("Error case: Confirming an unknown hold returns 404", func() {
		t := s.T()
		tripID := dbtest.CreateTestTripCapacity(t, s.DB, 100, 200, 10)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(confirmURL, tripID),
			map[string]any{"reservation_id": "res-missing", "delivery_id": uuid.New().String()})
		httptest.AssertErrorResponse(t, w, http.StatusNotFound, "Reservation not found")
	})
}

// =============================================================================
// TestCheckAndStatus - Read-side API tests
// =============================================================================

func (s *CapacitySuite) TestCheckAndStatus() {
	s.Run("Normal case: Check reports per-dimension sufficiency", func() {
		t := s.T()
		tripID := dbtest.CreateTestTripCapacity(t, s.DB, 100, 200, 10)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(checkURL, tripID),
			map[string]any{"required": vectorBody(50, 100, 5)})

		var check response.CapacityCheckResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &check)
		require.True(t, check.CanFit)
		require.True(t, check.Dimensions["weight"].Sufficient)
	})

	s.Run("Normal case: One scarce dimension fails the whole check", func() {
		t := s.T()
		tripID := dbtest.CreateTestTripCapacity(t, s.DB, 100, 200, 10)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(checkURL, tripID),
			map[string]any{"required": vectorBody(50, 100, 11)})

		var check response.CapacityCheckResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &check)
		require.False(t, check.CanFit)
		require.False(t, check.Dimensions["items"].Sufficient)
		require.True(t, check.Dimensions["weight"].Sufficient)
	})

	s.Run("Normal case: Status reflects holds and utilization", func() {
		t := s.T()
		tripID := dbtest.CreateTestTripCapacity(t, s.DB, 100, 200, 10)
		s.reserve(tripID, "res-1", 30, 20, 2)
		s.reserve(tripID, "res-2", 10, 10, 1)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(capacityURL, tripID), nil)

		var status response.CapacityStatusResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &status)
		require.Equal(t, 2, status.ActiveLeaseCount)
		require.InDelta(t, 60, status.Available.Weight, 1e-9)
		require.InDelta(t, 40, status.Utilization.Weight, 1e-9)
	})
}

// =============================================================================
// TestTripLifecycle - Status updates and bulk release
// =============================================================================

func (s *CapacitySuite) TestTripLifecycle() {
	s.Run("Normal case: Cancelling a trip returns every hold", func() {
		t := s.T()
		tripID := dbtest.CreateTestTripCapacity(t, s.DB, 100, 200, 10)
		s.reserve(tripID, "res-1", 10, 20, 2)
		s.reserve(tripID, "res-2", 5, 10, 1)

		w := httptest.PerformRequest(t, s.Router, http.MethodPut, fmt.Sprintf(statusURL, tripID),
			map[string]any{"status": "cancelled"})
		require.Equal(t, http.StatusNoContent, w.Code)

		sw := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(capacityURL, tripID), nil)
		var status response.CapacityStatusResponse
		httptest.AssertSuccessResponse(t, sw, http.StatusOK, &status)
		require.Equal(t, "cancelled", status.Status)
		require.InDelta(t, 100, status.Available.Weight, 1e-9)
		require.Equal(t, 0, status.ActiveLeaseCount)
	})

	s.Run("Normal case: Bulk release keeps confirmed reservations", func() {
		t := s.T()
		tripID := dbtest.CreateTestTripCapacity(t, s.DB, 100, 200, 10)
		s.reserve(tripID, "res-1", 10, 20, 2)
		s.reserve(tripID, "res-2", 5, 10, 1)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(confirmURL, tripID),
			map[string]any{"reservation_id": "res-2", "delivery_id": uuid.New().String()})
		require.Equal(t, http.StatusOK, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(releaseAllURL, tripID), nil)
		var bulk response.BulkReleaseResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &bulk)
		require.Equal(t, 1, bulk.Released)

		sw := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(capacityURL, tripID), nil)
		var status response.CapacityStatusResponse
		httptest.AssertSuccessResponse(t, sw, http.StatusOK, &status)
		require.InDelta(t, 95, status.Available.Weight, 1e-9)
	})

	s.Run("Error case: Unknown status value returns 400", func() {
		t := s.T()
		tripID := dbtest.CreateTestTripCapacity(t, s.DB, 100, 200, 10)

		w := httptest.PerformRequest(t, s.Router, http.MethodPut, fmt.Sprintf(statusURL, tripID),
			map[string]any{"status": "parked"})
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "Invalid request")
	})

	s.Run("Error case: Cancelled trip cannot reopen for reservations", func() {
		t := s.T()
		tripID := dbtest.CreateTestTripCapacity(t, s.DB, 100, 200, 10)

		w := httptest.PerformRequest(t, s.Router, http.MethodPut, fmt.Sprintf(statusURL, tripID),
			map[string]any{"status": "cancelled"})
		require.Equal(t, http.StatusNoContent, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodPut, fmt.Sprintf(statusURL, tripID),
			map[string]any{"status": "upcoming"})
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "transition not allowed")

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(reserveURL, tripID),
			map[string]any{
				"reservation_id": "res-late",
				"required":       vectorBody(1, 1, 1),
			})
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "not available")
	})
}

// =============================================================================
// TestOptimize - Allocation planning API tests
// =============================================================================

func (s *CapacitySuite) TestOptimize() {
	s.Run("Normal case: Greedy plan picks the efficient subset", func() {
		t := s.T()
		tripID := dbtest.CreateTestTripCapacity(t, s.DB, 10, 20, 5)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(optimizeURL, tripID),
			map[string]any{
				"candidates": []map[string]any{
					{"id": "A", "weight": 4.0, "volume": 5.0, "value": 40.0},
					{"id": "B", "weight": 8.0, "volume": 12.0, "value": 50.0},
					{"id": "C", "weight": 2.0, "volume": 5.0, "value": 15.0},
				},
			})

		var plan response.AllocationPlanResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &plan)
		require.InDelta(t, 55, plan.TotalValue, 1e-9)

		accepted := map[string]bool{}
		for _, c := range plan.Candidates {
			accepted[c.ID] = c.Accepted
		}
		require.True(t, accepted["A"])
		require.False(t, accepted["B"])
		require.True(t, accepted["C"])
	})

	s.Run("Normal case: Plan is computed against current availability", func() {
		t := s.T()
		tripID := dbtest.CreateTestTripCapacity(t, s.DB, 10, 20, 5)
		s.reserve(tripID, "res-1", 8, 10, 4)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(optimizeURL, tripID),
			map[string]any{
				"candidates": []map[string]any{
					{"id": "A", "weight": 4.0, "volume": 5.0, "value": 40.0},
					{"id": "C", "weight": 2.0, "volume": 5.0, "value": 15.0},
				},
			})

		var plan response.AllocationPlanResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &plan)
		require.InDelta(t, 15, plan.TotalValue, 1e-9)
	})
}
