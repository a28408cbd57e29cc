package capacity

import (
	"time"

	"shipalong/internal/pkg/errs"

	"github.com/google/uuid"
)

type TripStatus string

const (
	TripStatusUpcoming  TripStatus = "upcoming"
	TripStatusActive    TripStatus = "active"
	TripStatusCompleted TripStatus = "completed"
	TripStatusCancelled TripStatus = "cancelled"
)

func (s TripStatus) String() string {
	return string(s)
}

func (s TripStatus) IsValid() bool {
	switch s {
	case TripStatusUpcoming, TripStatusActive, TripStatusCompleted, TripStatusCancelled:
		return true
	default:
		return false
	}
}

// AcceptsReservations reports whether new holds may be placed against a trip
// in this status. Only upcoming trips accept reservations.
func (s TripStatus) AcceptsReservations() bool {
	return s == TripStatusUpcoming
}

// CanTransitionTo reports whether a trip may move from s to next. The
// lifecycle only moves forward: upcoming, active, completed, with
// cancellation possible until the trip completes. Completed and
// cancelled are terminal; a cancelled trip has already had its holds
// force-released and must not reopen for reservations. Re-asserting the
// current status is allowed as a no-op.
func (s TripStatus) CanTransitionTo(next TripStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case TripStatusUpcoming:
		return next == TripStatusActive || next == TripStatusCancelled
	case TripStatusActive:
		return next == TripStatusCompleted || next == TripStatusCancelled
	default:
		return false
	}
}

// TripCapacity is one trip's shippable capacity record. It is mutated
// exclusively through the reservation coordinator inside row-locked
// transactions; every other code path is a read-only consumer.
type TripCapacity struct {
	tripID    uuid.UUID
	total     Vector
	available Vector
	status    TripStatus
	updatedAt time.Time
}

// NewTripCapacity creates the capacity record for a freshly created trip:
// everything is available.
func NewTripCapacity(tripID uuid.UUID, total Vector) (*TripCapacity, error) {
	if tripID == uuid.Nil {
		return nil, errs.New("trip id is required")
	}
	if total.IsZero() {
		return nil, errs.Mark(errs.New("total capacity must not be zero in every dimension"), errs.ErrInvalidCapacityVector)
	}
	return &TripCapacity{
		tripID:    tripID,
		total:     total,
		available: total,
		status:    TripStatusUpcoming,
	}, nil
}

// ReconstructTripCapacity restores a record from persistent storage without
// re-running creation rules.
func ReconstructTripCapacity(
	tripID uuid.UUID,
	total, available Vector,
	status TripStatus,
	updatedAt time.Time,
) *TripCapacity {
	return &TripCapacity{
		tripID:    tripID,
		total:     total,
		available: available,
		status:    status,
		updatedAt: updatedAt,
	}
}

func (t *TripCapacity) TripID() uuid.UUID    { return t.tripID }
func (t *TripCapacity) Total() Vector        { return t.total }
func (t *TripCapacity) Available() Vector    { return t.available }
func (t *TripCapacity) Status() TripStatus   { return t.status }
func (t *TripCapacity) UpdatedAt() time.Time { return t.updatedAt }

func (t *TripCapacity) Utilization() Utilization {
	return ComputeUtilization(t.total, t.available)
}

// WithinBounds verifies 0 <= candidate <= total for every dimension. The
// durable store re-checks this before persisting any available update.
func (t *TripCapacity) WithinBounds(candidate Vector) bool {
	return candidate.Weight >= 0 && candidate.Weight <= t.total.Weight &&
		candidate.Volume >= 0 && candidate.Volume <= t.total.Volume &&
		candidate.Items >= 0 && candidate.Items <= t.total.Items
}
