package leasestore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"shipalong/internal/domain/capacity"
	"shipalong/internal/infra"
	"shipalong/internal/pkg/clock"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisLeaseStore keeps reservation leases as TTL-bounded JSON records under
// capacity:{tripId}:{reservationId}. Redis eviction is the physical expiry;
// every read additionally applies the logical expiry check so a lease past
// its expiresAt is never served even when eviction lags.
type RedisLeaseStore struct {
	client *redis.Client
	clock  clock.Clock
}

func NewRedisLeaseStore(client *redis.Client, clk clock.Clock) *RedisLeaseStore {
	return &RedisLeaseStore{client: client, clock: clk}
}

// Put creates the lease record. The NX flag makes the reservation id an
// idempotency token: a second writer for the same (trip, reservation)
// pair gets a duplicate-key error instead of clobbering the first hold.
func (s *RedisLeaseStore) Put(ctx context.Context, lease *capacity.Lease, ttl time.Duration) error {
	data, err := json.Marshal(lease)
	if err != nil {
		return infra.WrapRepoErr("failed to encode lease", err)
	}
	ok, err := s.client.SetNX(ctx, lease.Key(), data, ttl).Result()
	if err != nil {
		return infra.WrapRepoErr("failed to store lease", err)
	}
	if !ok {
		return infra.WrapRepoErr("lease already exists", nil, infra.KindDuplicateKey)
	}
	return nil
}

// Update rewrites an existing lease (confirm path). The XX flag keeps a
// lease that expired or was released mid-flight from being resurrected.
func (s *RedisLeaseStore) Update(ctx context.Context, lease *capacity.Lease, ttl time.Duration) error {
	data, err := json.Marshal(lease)
	if err != nil {
		return infra.WrapRepoErr("failed to encode lease", err)
	}
	ok, err := s.client.SetXX(ctx, lease.Key(), data, ttl).Result()
	if err != nil {
		return infra.WrapRepoErr("failed to update lease", err)
	}
	if !ok {
		return infra.WrapRepoErr("lease no longer exists", nil, infra.KindNotFound)
	}
	return nil
}

func (s *RedisLeaseStore) Get(ctx context.Context, tripID uuid.UUID, reservationID string) (*capacity.Lease, error) {
	data, err := s.client.Get(ctx, capacity.LeaseKey(tripID, reservationID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, infra.WrapRepoErr("lease not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to read lease", err)
	}

	lease, err := decodeLease(data)
	if err != nil {
		return nil, err
	}

	if lease.HasExpired(s.clock.Now()) {
		return nil, infra.WrapRepoErr("lease expired", nil, infra.KindNotFound)
	}

	return lease, nil
}

// Claim atomically removes and returns a reserved lease so exactly one of
// several racing releasers (caller, expiry timer, sweep) credits the
// capacity back. A confirmed lease is restored untouched and reported as
// not found: confirmed holds are permanent and must never be credited.
func (s *RedisLeaseStore) Claim(ctx context.Context, tripID uuid.UUID, reservationID string) (*capacity.Lease, error) {
	key := capacity.LeaseKey(tripID, reservationID)

	data, err := s.client.GetDel(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, infra.WrapRepoErr("lease not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to claim lease", err)
	}

	lease, err := decodeLease(data)
	if err != nil {
		return nil, err
	}

	if !lease.IsReserved() {
		if restoreErr := s.client.Set(ctx, key, data, s.confirmedRetention(lease)).Err(); restoreErr != nil {
			return nil, infra.WrapRepoErr("failed to restore confirmed lease", restoreErr)
		}
		return nil, infra.WrapRepoErr("lease already confirmed", nil, infra.KindNotFound)
	}

	return lease, nil
}

// ScanByTrip returns every live lease for one trip, logically-expired
// records filtered out.
func (s *RedisLeaseStore) ScanByTrip(ctx context.Context, tripID uuid.UUID) ([]*capacity.Lease, error) {
	return s.scan(ctx, capacity.TripLeasePattern(tripID))
}

func (s *RedisLeaseStore) scan(ctx context.Context, pattern string) ([]*capacity.Lease, error) {
	now := s.clock.Now()
	leases := make([]*capacity.Lease, 0)

	iter := s.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		data, err := s.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			// Evicted between SCAN and GET; skip.
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, infra.WrapRepoErr("failed to read lease during scan", err)
		}

		lease, err := decodeLease(data)
		if err != nil {
			return nil, err
		}
		if lease.Status == capacity.LeaseStatusReserved && lease.HasExpired(now) {
			// Logically expired leases still surface to the sweep through
			// ScanExpired, not through live scans.
			continue
		}
		leases = append(leases, lease)
	}
	if err := iter.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to scan leases", err)
	}

	return leases, nil
}

// ScanExpired returns reserved leases already past expiresAt that physical
// eviction has not removed yet. The reconciliation sweep releases them.
func (s *RedisLeaseStore) ScanExpired(ctx context.Context) ([]*capacity.Lease, error) {
	now := s.clock.Now()
	expired := make([]*capacity.Lease, 0)

	iter := s.client.Scan(ctx, 0, capacity.AllLeasePattern(), 0).Iterator()
	for iter.Next(ctx) {
		data, err := s.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, infra.WrapRepoErr("failed to read lease during scan", err)
		}

		lease, err := decodeLease(data)
		if err != nil {
			return nil, err
		}
		if lease.HasExpired(now) {
			expired = append(expired, lease)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to scan leases", err)
	}

	return expired, nil
}

func (s *RedisLeaseStore) confirmedRetention(lease *capacity.Lease) time.Duration {
	if lease.ConfirmedAt == nil {
		return 24 * time.Hour
	}
	remaining := lease.ConfirmedAt.Add(24 * time.Hour).Sub(s.clock.Now())
	if remaining <= 0 {
		return time.Second
	}
	return remaining
}

func decodeLease(data []byte) (*capacity.Lease, error) {
	var lease capacity.Lease
	if err := json.Unmarshal(data, &lease); err != nil {
		return nil, infra.WrapRepoErr("failed to decode lease", err)
	}
	return &lease, nil
}
