package capacity

import (
	"fmt"
	"strings"
	"time"

	"shipalong/internal/pkg/errs"

	"github.com/google/uuid"
)

type LeaseStatus string

const (
	LeaseStatusReserved  LeaseStatus = "reserved"
	LeaseStatusConfirmed LeaseStatus = "confirmed"
)

func (s LeaseStatus) String() string {
	return string(s)
}

// Lease is a provisional, time-bounded hold against one trip's available
// capacity. It lives in the lease store as a flat serialized record; the
// durable capacity row stays the single source of truth for available
// capacity, the lease is bookkeeping for reversal.
type Lease struct {
	TripID        uuid.UUID   `json:"trip_id"`
	ReservationID string      `json:"reservation_id"`
	Reserved      Vector      `json:"reserved_capacity"`
	Status        LeaseStatus `json:"status"`
	ReservedAt    time.Time   `json:"reserved_at"`
	ExpiresAt     time.Time   `json:"expires_at"`
	ConfirmedAt   *time.Time  `json:"confirmed_at,omitempty"`
	DeliveryID    *uuid.UUID  `json:"delivery_id,omitempty"`
}

func NewLease(tripID uuid.UUID, reservationID string, reserved Vector, now time.Time, holdTime time.Duration) (*Lease, error) {
	if err := ValidateReservationID(reservationID); err != nil {
		return nil, err
	}
	return &Lease{
		TripID:        tripID,
		ReservationID: reservationID,
		Reserved:      reserved,
		Status:        LeaseStatusReserved,
		ReservedAt:    now,
		ExpiresAt:     now.Add(holdTime),
	}, nil
}

// Confirm flips the hold to permanent. The capacity stays debited; only the
// lease record changes.
func (l *Lease) Confirm(deliveryID uuid.UUID, now time.Time) {
	l.Status = LeaseStatusConfirmed
	l.DeliveryID = &deliveryID
	confirmedAt := now
	l.ConfirmedAt = &confirmedAt
}

func (l *Lease) IsReserved() bool {
	return l.Status == LeaseStatusReserved
}

// HasExpired reports whether a still-reserved lease is past its expiry.
// Confirmed leases never expire; their remaining TTL is audit retention.
func (l *Lease) HasExpired(now time.Time) bool {
	return l.Status == LeaseStatusReserved && !now.Before(l.ExpiresAt)
}

func (l *Lease) Key() string {
	return LeaseKey(l.TripID, l.ReservationID)
}

// ValidateReservationID rejects tokens that would corrupt the
// capacity:{tripId}:{reservationId} key shape.
func ValidateReservationID(reservationID string) error {
	if strings.TrimSpace(reservationID) == "" {
		return errs.Mark(errs.New("reservation id must not be empty"), errs.ErrInvalidReservationID)
	}
	if strings.Contains(reservationID, ":") {
		return errs.Mark(errs.New("reservation id must not contain ':'"), errs.ErrInvalidReservationID)
	}
	return nil
}

const leaseKeyPrefix = "capacity"

func LeaseKey(tripID uuid.UUID, reservationID string) string {
	return fmt.Sprintf("%s:%s:%s", leaseKeyPrefix, tripID, reservationID)
}

// TripLeasePattern matches every lease key for one trip.
func TripLeasePattern(tripID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:*", leaseKeyPrefix, tripID)
}

// AllLeasePattern matches every lease key; the expiry sweep scans with it.
func AllLeasePattern() string {
	return leaseKeyPrefix + ":*"
}
