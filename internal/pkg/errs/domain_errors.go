package errs

import "errors"

// Domain-specific sentinel errors for the capacity engine
var (
	// Not-found: surfaced directly to the caller, no retry
	ErrTripNotFound        = errors.New("trip not found")
	ErrReservationNotFound = errors.New("reservation not found")

	// Preconditions: rejected-but-expected outcomes, not system faults
	ErrTripNotAvailable        = errors.New("trip not available for reservations")
	ErrInsufficientCapacity    = errors.New("insufficient capacity")
	ErrTripCapacityExists      = errors.New("trip capacity already exists")
	ErrReservationExists       = errors.New("reservation already exists")
	ErrInvalidStatusTransition = errors.New("trip status transition not allowed")

	// Invariant violation: indicates a bug or a race the row locking should
	// have prevented; fatal to the operation and logged at high severity
	ErrCapacityInvariantViolation = errors.New("capacity invariant violation")

	// Validation errors
	ErrInvalidHoldTime       = errors.New("invalid hold time")
	ErrInvalidCapacityVector = errors.New("invalid capacity vector")
	ErrInvalidReservationID  = errors.New("invalid reservation id")
	ErrInvalidTripStatus     = errors.New("invalid trip status")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
	ErrLeaseStoreFailed        = errors.New("lease store operation failed")
)
