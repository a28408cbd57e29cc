//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// inserts a trip capacity row with full availability.
func CreateTestTripCapacity(t *testing.T, db DBLike, weight, volume float64, items int) uuid.UUID {
	t.Helper()

	tripID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx, `
		INSERT INTO trip_capacity (
			trip_id,
			weight_capacity, volume_capacity, item_capacity,
			available_weight, available_volume, available_items,
			status
		) VALUES ($1, $2, $3, $4, $2, $3, $4, 'upcoming')`,
		tripID, weight, volume, items)
	require.NoError(t, err)

	return tripID
}

func SetTripStatus(t *testing.T, db DBLike, tripID uuid.UUID, status string) {
	t.Helper()

	ctx := context.Background()
	tag, err := db.Exec(ctx, "UPDATE trip_capacity SET status = $1, updated_at = now() WHERE trip_id = $2", status, tripID)
	require.NoError(t, err)
	require.Equal(t, int64(1), tag.RowsAffected())
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables so each subtest starts from a clean slate
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return nil
}
