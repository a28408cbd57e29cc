package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"shipalong/internal/domain/capacity"
	reqdto "shipalong/internal/handler/dto/request"
	"shipalong/internal/infra"
	"shipalong/internal/infra/db"
	"shipalong/internal/pkg/clock"
	"shipalong/internal/pkg/config"
	"shipalong/internal/pkg/errs"

	"github.com/google/uuid"
)

// leaseEvictionGrace keeps expired lease records physically readable a
// little longer than their logical expiry, so the reconciliation sweep
// can reclaim capacity before the store evicts the record.
const leaseEvictionGrace = 5 * time.Minute

type ReserveResult struct {
	ReservationID string
	Reserved      capacity.Vector
	Available     capacity.Vector
	ExpiresAt     time.Time
}

type ConfirmResult struct {
	ReservationID string
	Confirmed     capacity.Vector
	DeliveryID    uuid.UUID
	ConfirmedAt   time.Time
}

type ReleaseResult struct {
	ReservationID string
	Released      capacity.Vector
	Available     capacity.Vector
}

type CapacityCommands interface {
	CreateTripCapacity(ctx context.Context, tripID uuid.UUID, req reqdto.CreateTripCapacityRequest) (*capacity.TripCapacity, error)
	Reserve(ctx context.Context, tripID uuid.UUID, req reqdto.ReserveCapacityRequest) (*ReserveResult, error)
	Confirm(ctx context.Context, tripID uuid.UUID, req reqdto.ConfirmReservationRequest) (*ConfirmResult, error)
	Release(ctx context.Context, tripID uuid.UUID, reservationID string) (*ReleaseResult, error)
	ReleaseAllForTrip(ctx context.Context, tripID uuid.UUID) (int, error)
	UpdateTripStatus(ctx context.Context, tripID uuid.UUID, req reqdto.UpdateTripStatusRequest) error
	ReleaseExpired(ctx context.Context) (int, error)
}

type capacityUseCaseImpl struct {
	tripRepo TripCapacityRepository
	leases   LeaseStore
	uow      UnitOfWork
	clock    clock.Clock
	cfg      config.CapacityConfig
}

func NewCapacityUseCase(
	tripRepo TripCapacityRepository,
	leases LeaseStore,
	uow UnitOfWork,
	clk clock.Clock,
	cfg config.CapacityConfig,
) CapacityCommands {
	return &capacityUseCaseImpl{
		tripRepo: tripRepo,
		leases:   leases,
		uow:      uow,
		clock:    clk,
		cfg:      cfg,
	}
}

func (u *capacityUseCaseImpl) CreateTripCapacity(
	ctx context.Context,
	tripID uuid.UUID,
	req reqdto.CreateTripCapacityRequest,
) (*capacity.TripCapacity, error) {
	total, err := req.ToDomain()
	if err != nil {
		return nil, err
	}

	tc, err := capacity.NewTripCapacity(tripID, total)
	if err != nil {
		return nil, err
	}

	err = u.uow.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		return u.tripRepo.Create(ctx, tx, tc)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, errs.Mark(err, errs.ErrTripCapacityExists)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return tc, nil
}

func (u *capacityUseCaseImpl) Reserve(
	ctx context.Context,
	tripID uuid.UUID,
	req reqdto.ReserveCapacityRequest,
) (*ReserveResult, error) {
	if err := capacity.ValidateReservationID(req.ReservationID); err != nil {
		return nil, err
	}
	required, err := req.Required.ToDomain()
	if err != nil {
		return nil, err
	}
	holdTime, err := u.resolveHoldTime(req.HoldTimeMinutes)
	if err != nil {
		return nil, err
	}

	// The reservation id is an idempotency token: retrying a reserve
	// replays the original hold instead of debiting capacity again.
	if existing, err := u.leases.Get(ctx, tripID, req.ReservationID); err == nil {
		return u.reserveResultFromExisting(ctx, tripID, existing, required)
	} else if !infra.IsKind(err, infra.KindNotFound) {
		return nil, errs.Mark(err, errs.ErrLeaseStoreFailed)
	}

	var available capacity.Vector
	err = u.uow.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		tc, err := u.tripRepo.FindByTripIDForUpdate(ctx, tx, tripID)
		if err != nil {
			return err
		}
		// Sufficiency is judged against the locked row, never a prior read.
		if !tc.Status().AcceptsReservations() {
			return errs.Mark(errs.Newf("trip %s is %s", tripID, tc.Status()), errs.ErrTripNotAvailable)
		}
		newAvailable, err := capacity.Debit(tc.Available(), required)
		if err != nil {
			return err
		}
		if err := u.tripRepo.UpdateAvailable(ctx, tx, tripID, newAvailable); err != nil {
			return err
		}
		available = newAvailable
		return nil
	})
	if err != nil {
		return nil, u.mapWriteError(ctx, tripID, err)
	}

	now := u.clock.Now()
	lease, err := capacity.NewLease(tripID, req.ReservationID, required, now, holdTime)
	if err != nil {
		u.compensateDebit(ctx, tripID, required)
		return nil, err
	}
	reclaimed, err := u.putNewLease(ctx, lease, holdTime+leaseEvictionGrace)
	if err != nil {
		// The debit is already durable; undo it rather than leave
		// capacity held with no lease to release it.
		u.compensateDebit(ctx, tripID, required)
		if infra.IsKind(err, infra.KindDuplicateKey) {
			// A concurrent reserve with the same token won the write.
			return u.replayReservation(ctx, tripID, req.ReservationID, required)
		}
		return nil, errs.Mark(err, errs.ErrLeaseStoreFailed)
	}
	if reclaimed {
		// Reclaiming the stale record credited capacity back after the
		// debit was read; report the current availability instead.
		if refreshed, err := u.currentAvailable(ctx, tripID); err == nil {
			available = refreshed
		}
	}

	u.scheduleExpiry(tripID, req.ReservationID, holdTime)

	return &ReserveResult{
		ReservationID: req.ReservationID,
		Reserved:      required,
		Available:     available,
		ExpiresAt:     lease.ExpiresAt,
	}, nil
}

// putNewLease writes the lease record; the store rejects the write when
// a record for the same token is still present. That record may be an
// expired hold the sweep has not reclaimed yet, in which case it is
// reclaimed here and the write retried once. The returned flag reports
// whether a reclaim credited capacity back, invalidating any
// availability read taken before the write.
func (u *capacityUseCaseImpl) putNewLease(ctx context.Context, lease *capacity.Lease, ttl time.Duration) (bool, error) {
	err := u.leases.Put(ctx, lease, ttl)
	if err == nil || !infra.IsKind(err, infra.KindDuplicateKey) {
		return false, err
	}
	// Get hides logically expired records, so it separates a live
	// duplicate from a stale one. A live hold must never be claimed
	// here: the claim window would let a racing writer slip in.
	if _, gerr := u.leases.Get(ctx, lease.TripID, lease.ReservationID); gerr == nil || !infra.IsKind(gerr, infra.KindNotFound) {
		return false, err
	}
	reclaimed, rerr := u.reclaimExpiredLease(ctx, lease.TripID, lease.ReservationID)
	if rerr != nil || !reclaimed {
		return false, err
	}
	return true, u.leases.Put(ctx, lease, ttl)
}

// replayReservation resolves a duplicate-token reserve: an identical
// live hold replays as success, anything else is a conflict.
func (u *capacityUseCaseImpl) replayReservation(
	ctx context.Context,
	tripID uuid.UUID,
	reservationID string,
	required capacity.Vector,
) (*ReserveResult, error) {
	existing, err := u.leases.Get(ctx, tripID, reservationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(
				errs.Newf("reservation %s raced with a concurrent reserve and release", reservationID),
				errs.ErrReservationExists,
			)
		}
		return nil, errs.Mark(err, errs.ErrLeaseStoreFailed)
	}
	return u.reserveResultFromExisting(ctx, tripID, existing, required)
}

func (u *capacityUseCaseImpl) reserveResultFromExisting(
	ctx context.Context,
	tripID uuid.UUID,
	existing *capacity.Lease,
	required capacity.Vector,
) (*ReserveResult, error) {
	if !existing.IsReserved() || existing.Reserved != required {
		return nil, errs.Mark(
			errs.Newf("reservation %s already exists for trip %s", existing.ReservationID, tripID),
			errs.ErrReservationExists,
		)
	}
	available, err := u.currentAvailable(ctx, tripID)
	if err != nil {
		return nil, err
	}
	return &ReserveResult{
		ReservationID: existing.ReservationID,
		Reserved:      existing.Reserved,
		Available:     available,
		ExpiresAt:     existing.ExpiresAt,
	}, nil
}

func (u *capacityUseCaseImpl) currentAvailable(ctx context.Context, tripID uuid.UUID) (capacity.Vector, error) {
	var available capacity.Vector
	err := u.uow.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		tc, err := u.tripRepo.FindByTripID(ctx, tx, tripID)
		if err != nil {
			return err
		}
		available = tc.Available()
		return nil
	})
	if err != nil {
		return capacity.Vector{}, u.mapWriteError(ctx, tripID, err)
	}
	return available, nil
}

func (u *capacityUseCaseImpl) Confirm(
	ctx context.Context,
	tripID uuid.UUID,
	req reqdto.ConfirmReservationRequest,
) (*ConfirmResult, error) {
	if err := capacity.ValidateReservationID(req.ReservationID); err != nil {
		return nil, err
	}

	lease, err := u.leases.Get(ctx, tripID, req.ReservationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrReservationNotFound)
		}
		return nil, errs.Mark(err, errs.ErrLeaseStoreFailed)
	}

	// Confirming twice is reported as success with the original outcome.
	if lease.Status == capacity.LeaseStatusConfirmed {
		return confirmResultFrom(lease), nil
	}

	lease.Confirm(req.DeliveryID, u.clock.Now())
	// The capacity debit happened at reserve time; confirmation only
	// marks the hold permanent and extends the record for audit reads.
	if err := u.leases.Update(ctx, lease, u.cfg.ConfirmedLeaseTTL); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrReservationNotFound)
		}
		return nil, errs.Mark(err, errs.ErrLeaseStoreFailed)
	}
	return confirmResultFrom(lease), nil
}

func confirmResultFrom(lease *capacity.Lease) *ConfirmResult {
	result := &ConfirmResult{
		ReservationID: lease.ReservationID,
		Confirmed:     lease.Reserved,
	}
	if lease.DeliveryID != nil {
		result.DeliveryID = *lease.DeliveryID
	}
	if lease.ConfirmedAt != nil {
		result.ConfirmedAt = *lease.ConfirmedAt
	}
	return result
}

func (u *capacityUseCaseImpl) Release(
	ctx context.Context,
	tripID uuid.UUID,
	reservationID string,
) (*ReleaseResult, error) {
	if err := capacity.ValidateReservationID(reservationID); err != nil {
		return nil, err
	}

	lease, err := u.leases.Claim(ctx, tripID, reservationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrReservationNotFound)
		}
		return nil, errs.Mark(err, errs.ErrLeaseStoreFailed)
	}

	available, err := u.creditCapacity(ctx, tripID, lease.Reserved)
	if err != nil {
		u.restoreLease(ctx, lease)
		return nil, err
	}
	return &ReleaseResult{
		ReservationID: reservationID,
		Released:      lease.Reserved,
		Available:     available,
	}, nil
}

func (u *capacityUseCaseImpl) ReleaseAllForTrip(ctx context.Context, tripID uuid.UUID) (int, error) {
	leases, err := u.leases.ScanByTrip(ctx, tripID)
	if err != nil {
		return 0, errs.Mark(err, errs.ErrLeaseStoreFailed)
	}

	released := 0
	for _, lease := range leases {
		if !lease.IsReserved() {
			continue
		}
		if _, err := u.Release(ctx, tripID, lease.ReservationID); err != nil {
			if errors.Is(err, errs.ErrReservationNotFound) {
				continue // raced with its own expiry or a direct release
			}
			slog.Error("failed to release lease during bulk release",
				"trip_id", tripID,
				"reservation_id", lease.ReservationID,
				"error", err,
			)
			continue
		}
		released++
	}
	return released, nil
}

func (u *capacityUseCaseImpl) UpdateTripStatus(
	ctx context.Context,
	tripID uuid.UUID,
	req reqdto.UpdateTripStatusRequest,
) error {
	status, err := req.ToDomain()
	if err != nil {
		return err
	}

	err = u.uow.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		tc, err := u.tripRepo.FindByTripIDForUpdate(ctx, tx, tripID)
		if err != nil {
			return err
		}
		if !tc.Status().CanTransitionTo(status) {
			return errs.Mark(
				errs.Newf("trip %s cannot move from %s to %s", tripID, tc.Status(), status),
				errs.ErrInvalidStatusTransition,
			)
		}
		return u.tripRepo.UpdateStatus(ctx, tx, tripID, status)
	})
	if err != nil {
		if errors.Is(err, errs.ErrInvalidStatusTransition) {
			return err
		}
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, errs.ErrTripNotFound)
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	// A cancelled trip keeps no holds; outstanding leases are returned
	// best-effort so callers see capacity freed immediately.
	if status == capacity.TripStatusCancelled {
		if _, err := u.ReleaseAllForTrip(ctx, tripID); err != nil {
			slog.Error("failed to release leases for cancelled trip", "trip_id", tripID, "error", err)
		}
	}
	return nil
}

// ReleaseExpired is the reconciliation sweep entry point. It reclaims
// capacity held by leases past their expiry that the fast-path timer
// missed, e.g. after a process restart.
func (u *capacityUseCaseImpl) ReleaseExpired(ctx context.Context) (int, error) {
	expired, err := u.leases.ScanExpired(ctx)
	if err != nil {
		return 0, errs.Mark(err, errs.ErrLeaseStoreFailed)
	}

	reclaimed := 0
	for _, lease := range expired {
		ok, err := u.reclaimExpiredLease(ctx, lease.TripID, lease.ReservationID)
		if err != nil {
			slog.Error("failed to reclaim expired lease",
				"trip_id", lease.TripID,
				"reservation_id", lease.ReservationID,
				"error", err,
			)
			continue
		}
		if ok {
			reclaimed++
		}
	}
	return reclaimed, nil
}

func (u *capacityUseCaseImpl) resolveHoldTime(minutes *int) (time.Duration, error) {
	if minutes == nil {
		return time.Duration(u.cfg.DefaultHoldMinutes) * time.Minute, nil
	}
	if *minutes < u.cfg.MinHoldMinutes || *minutes > u.cfg.MaxHoldMinutes {
		return 0, errs.Mark(
			errs.Newf("hold time must be between %d and %d minutes, got %d", u.cfg.MinHoldMinutes, u.cfg.MaxHoldMinutes, *minutes),
			errs.ErrInvalidHoldTime,
		)
	}
	return time.Duration(*minutes) * time.Minute, nil
}

// scheduleExpiry arms the in-process fast path for one lease. The sweep
// remains the mechanism of record; a timer lost to a restart is fine.
func (u *capacityUseCaseImpl) scheduleExpiry(tripID uuid.UUID, reservationID string, holdTime time.Duration) {
	time.AfterFunc(holdTime, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if _, err := u.reclaimExpiredLease(ctx, tripID, reservationID); err != nil {
			slog.Error("expiry fast path failed, leaving lease for sweep",
				"trip_id", tripID,
				"reservation_id", reservationID,
				"error", err,
			)
		}
	})
}

// reclaimExpiredLease claims the lease and credits its capacity back,
// but only if the claimed lease really is an expired hold. A live lease
// under the same id (the hold was released and re-reserved) is put back
// untouched.
func (u *capacityUseCaseImpl) reclaimExpiredLease(ctx context.Context, tripID uuid.UUID, reservationID string) (bool, error) {
	lease, err := u.leases.Claim(ctx, tripID, reservationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return false, nil // released or confirmed already
		}
		return false, errs.Mark(err, errs.ErrLeaseStoreFailed)
	}

	if !lease.HasExpired(u.clock.Now()) {
		u.restoreLease(ctx, lease)
		return false, nil
	}

	if _, err := u.creditCapacity(ctx, tripID, lease.Reserved); err != nil {
		u.restoreLease(ctx, lease)
		return false, err
	}

	slog.Info("expired lease reclaimed",
		"trip_id", tripID,
		"reservation_id", reservationID,
		"released_weight", lease.Reserved.Weight,
		"released_volume", lease.Reserved.Volume,
		"released_items", lease.Reserved.Items,
	)
	return true, nil
}

func (u *capacityUseCaseImpl) creditCapacity(ctx context.Context, tripID uuid.UUID, released capacity.Vector) (capacity.Vector, error) {
	var available capacity.Vector
	err := u.uow.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		tc, err := u.tripRepo.FindByTripIDForUpdate(ctx, tx, tripID)
		if err != nil {
			return err
		}
		newAvailable := capacity.Credit(tc.Available(), released, tc.Total())
		if err := u.tripRepo.UpdateAvailable(ctx, tx, tripID, newAvailable); err != nil {
			return err
		}
		available = newAvailable
		return nil
	})
	if err != nil {
		return capacity.Vector{}, u.mapWriteError(ctx, tripID, err)
	}
	return available, nil
}

// compensateDebit reverts a committed debit whose lease write failed.
// Failure here leaves capacity held with no lease; only the offline
// reconciliation described in the runbook can repair that, so it is
// logged at high severity.
func (u *capacityUseCaseImpl) compensateDebit(ctx context.Context, tripID uuid.UUID, debited capacity.Vector) {
	if _, err := u.creditCapacity(ctx, tripID, debited); err != nil {
		slog.Error("failed to compensate debit after lease write failure",
			"trip_id", tripID,
			"debited_weight", debited.Weight,
			"debited_volume", debited.Volume,
			"debited_items", debited.Items,
			"error", err,
		)
	}
}

func (u *capacityUseCaseImpl) restoreLease(ctx context.Context, lease *capacity.Lease) {
	remaining := lease.ExpiresAt.Sub(u.clock.Now()) + leaseEvictionGrace
	if remaining < leaseEvictionGrace {
		remaining = leaseEvictionGrace
	}
	if err := u.leases.Put(ctx, lease, remaining); err != nil {
		slog.Error("failed to restore claimed lease",
			"trip_id", lease.TripID,
			"reservation_id", lease.ReservationID,
			"error", err,
		)
	}
}

func (u *capacityUseCaseImpl) mapWriteError(ctx context.Context, tripID uuid.UUID, err error) error {
	switch {
	case errors.Is(err, errs.ErrTripNotAvailable),
		errors.Is(err, errs.ErrInsufficientCapacity),
		errors.Is(err, errs.ErrInvalidCapacityVector):
		return err
	case infra.IsKind(err, infra.KindNotFound):
		return errs.Mark(err, errs.ErrTripNotFound)
	case infra.IsKind(err, infra.KindInvariantViolation):
		slog.ErrorContext(ctx, "capacity invariant violation detected",
			"trip_id", tripID,
			"error", err,
		)
		return errs.Mark(err, errs.ErrCapacityInvariantViolation)
	default:
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
}
