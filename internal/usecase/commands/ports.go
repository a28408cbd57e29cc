package commands

import (
	"context"
	"time"

	"shipalong/internal/domain/capacity"
	"shipalong/internal/infra/db"

	"github.com/google/uuid"
)

// UnitOfWork runs fn inside a single database transaction.
// Implementations retry transparently on serialization failures.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error
}

type TripCapacityRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, tc *capacity.TripCapacity) error
	FindByTripID(ctx context.Context, dbtx db.DBTX, tripID uuid.UUID) (*capacity.TripCapacity, error)
	FindByTripIDForUpdate(ctx context.Context, dbtx db.DBTX, tripID uuid.UUID) (*capacity.TripCapacity, error)
	UpdateAvailable(ctx context.Context, dbtx db.DBTX, tripID uuid.UUID, newAvailable capacity.Vector) error
	UpdateStatus(ctx context.Context, dbtx db.DBTX, tripID uuid.UUID, status capacity.TripStatus) error
}

// LeaseStore is the TTL-backed record of in-flight reservation holds.
// Claim atomically removes and returns a lease so that racing releasers
// (caller, expiry timer, sweep) credit capacity back exactly once.
type LeaseStore interface {
	Put(ctx context.Context, lease *capacity.Lease, ttl time.Duration) error
	Update(ctx context.Context, lease *capacity.Lease, ttl time.Duration) error
	Get(ctx context.Context, tripID uuid.UUID, reservationID string) (*capacity.Lease, error)
	Claim(ctx context.Context, tripID uuid.UUID, reservationID string) (*capacity.Lease, error)
	ScanByTrip(ctx context.Context, tripID uuid.UUID) ([]*capacity.Lease, error)
	ScanExpired(ctx context.Context) ([]*capacity.Lease, error)
}
