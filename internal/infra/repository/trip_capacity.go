package repository

import (
	"context"
	"errors"
	"time"

	"shipalong/internal/domain/capacity"
	"shipalong/internal/infra"
	"shipalong/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgErrCodeUniqueViolation = "23505"

// TripCapacityRepository is the durable, authoritative capacity record per
// trip. Reads for mutation go through FindByTripIDForUpdate so the caller
// holds the row lock for the whole read-check-write sequence.
type TripCapacityRepository struct{}

func NewTripCapacityRepository() *TripCapacityRepository {
	return &TripCapacityRepository{}
}

const tripCapacityColumns = `
	trip_id,
	weight_capacity, volume_capacity, item_capacity,
	available_weight, available_volume, available_items,
	status, updated_at`

func (r *TripCapacityRepository) Create(ctx context.Context, dbtx db.DBTX, tc *capacity.TripCapacity) error {
	total := tc.Total()
	available := tc.Available()

	_, err := dbtx.Exec(ctx, `
		INSERT INTO trip_capacity (
			trip_id,
			weight_capacity, volume_capacity, item_capacity,
			available_weight, available_volume, available_items,
			status, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())`,
		tc.TripID(),
		total.Weight, total.Volume, total.Items,
		available.Weight, available.Volume, available.Items,
		tc.Status().String(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrCodeUniqueViolation {
			return infra.WrapRepoErr("trip capacity already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create trip capacity", err)
	}

	return nil
}

func (r *TripCapacityRepository) FindByTripID(ctx context.Context, dbtx db.DBTX, tripID uuid.UUID) (*capacity.TripCapacity, error) {
	row := dbtx.QueryRow(ctx, `
		SELECT `+tripCapacityColumns+`
		FROM trip_capacity
		WHERE trip_id = $1`,
		tripID,
	)
	return scanTripCapacity(row)
}

// FindByTripIDForUpdate acquires the row lock; it must run inside a
// transaction. Pre-lock reads are advisory only and callers re-check
// sufficiency against the value returned here.
func (r *TripCapacityRepository) FindByTripIDForUpdate(ctx context.Context, dbtx db.DBTX, tripID uuid.UUID) (*capacity.TripCapacity, error) {
	row := dbtx.QueryRow(ctx, `
		SELECT `+tripCapacityColumns+`
		FROM trip_capacity
		WHERE trip_id = $1
		FOR UPDATE`,
		tripID,
	)
	return scanTripCapacity(row)
}

// UpdateAvailable persists a new available vector. Status is not checked
// here: credits must land on cancelled and departed trips too, and the
// coordinator gates debits on status under the row lock. The WHERE clause
// re-checks the 0 <= available <= total bounds even though callers
// pre-validate; zero rows affected is classified by re-reading.
func (r *TripCapacityRepository) UpdateAvailable(ctx context.Context, dbtx db.DBTX, tripID uuid.UUID, newAvailable capacity.Vector) error {
	tag, err := dbtx.Exec(ctx, `
		UPDATE trip_capacity
		SET available_weight = $2,
		    available_volume = $3,
		    available_items = $4,
		    updated_at = now()
		WHERE trip_id = $1
		  AND $2 >= 0 AND $2 <= weight_capacity
		  AND $3 >= 0 AND $3 <= volume_capacity
		  AND $4 >= 0 AND $4 <= item_capacity`,
		tripID,
		newAvailable.Weight, newAvailable.Volume, newAvailable.Items,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update available capacity", err)
	}

	if tag.RowsAffected() == 0 {
		return r.classifyRejectedUpdate(ctx, dbtx, tripID, newAvailable)
	}

	return nil
}

func (r *TripCapacityRepository) classifyRejectedUpdate(ctx context.Context, dbtx db.DBTX, tripID uuid.UUID, newAvailable capacity.Vector) error {
	tc, err := r.FindByTripID(ctx, dbtx, tripID)
	if err != nil {
		return err
	}

	if !tc.WithinBounds(newAvailable) {
		return infra.WrapRepoErr("available capacity would fall outside [0, total]", nil, infra.KindInvariantViolation)
	}
	return infra.WrapRepoErr("available capacity update affected no rows", nil)
}

// UpdateStatus moves the trip record through its lifecycle; release-all uses
// it when a trip is cancelled.
func (r *TripCapacityRepository) UpdateStatus(ctx context.Context, dbtx db.DBTX, tripID uuid.UUID, status capacity.TripStatus) error {
	tag, err := dbtx.Exec(ctx, `
		UPDATE trip_capacity
		SET status = $2, updated_at = now()
		WHERE trip_id = $1`,
		tripID, status.String(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update trip status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("trip capacity not found", nil, infra.KindNotFound)
	}
	return nil
}

func scanTripCapacity(row pgx.Row) (*capacity.TripCapacity, error) {
	var (
		tripID          uuid.UUID
		weightCap       float64
		volumeCap       float64
		itemCap         int
		availableWeight float64
		availableVolume float64
		availableItems  int
		status          string
		updatedAt       time.Time
	)

	err := row.Scan(
		&tripID,
		&weightCap, &volumeCap, &itemCap,
		&availableWeight, &availableVolume, &availableItems,
		&status, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("trip capacity not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan trip capacity", err)
	}

	return capacity.ReconstructTripCapacity(
		tripID,
		capacity.Vector{Weight: weightCap, Volume: volumeCap, Items: itemCap},
		capacity.Vector{Weight: availableWeight, Volume: availableVolume, Items: availableItems},
		capacity.TripStatus(status),
		updatedAt,
	), nil
}
