//go:build unit

package capacity_test

import (
	"testing"

	"shipalong/internal/domain/capacity"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemIDs(items []capacity.Item) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

func TestOptimize(t *testing.T) {
	t.Run("greedy fit by efficiency is deterministic", func(t *testing.T) {
		available := capacity.Vector{Weight: 10, Volume: 20, Items: 5}
		items := []capacity.Item{
			{ID: "A", Weight: 4, Volume: 5, Value: 40}, // efficiency 40/4.5 ≈ 8.9
			{ID: "B", Weight: 8, Volume: 5, Value: 50}, // efficiency 50/8.5 ≈ 5.9
			{ID: "C", Weight: 2, Volume: 5, Value: 15}, // efficiency 15/2.5 = 6
		}

		result := capacity.Optimize(available, items)

		// Order A, C, B; A and C fit, B needs weight 8 against remaining 4.
		assert.Equal(t, []string{"A", "C"}, itemIDs(result.FittableItems))
		assert.Equal(t, []string{"B"}, itemIDs(result.NonFittableItems))
		assert.False(t, result.CanFitAll)
		assert.InDelta(t, 55, result.TotalValue, 1e-9)
		if diff := cmp.Diff(capacity.Vector{Weight: 4, Volume: 10, Items: 3}, result.RemainingCapacity); diff != "" {
			t.Errorf("remaining capacity mismatch (-want +got):\n%s", diff)
		}

		require.Len(t, result.Recommendations, 1)
		assert.Equal(t, capacity.RecommendationCapacityExceeded, result.Recommendations[0].Code)
	})

	t.Run("ties keep input order", func(t *testing.T) {
		available := capacity.Vector{Weight: 100, Volume: 100, Items: 10}
		items := []capacity.Item{
			{ID: "first", Weight: 2, Volume: 0, Value: 10},
			{ID: "second", Weight: 2, Volume: 0, Value: 10},
			{ID: "third", Weight: 2, Volume: 0, Value: 10},
		}

		result := capacity.Optimize(available, items)
		assert.Equal(t, []string{"first", "second", "third"}, itemIDs(result.FittableItems))
	})

	t.Run("everything fits", func(t *testing.T) {
		available := capacity.Vector{Weight: 100, Volume: 100, Items: 10}
		items := []capacity.Item{
			{ID: "A", Weight: 30, Volume: 20, Value: 10},
			{ID: "B", Weight: 40, Volume: 30, Value: 20},
		}

		result := capacity.Optimize(available, items)
		assert.True(t, result.CanFitAll)
		assert.Empty(t, result.NonFittableItems)
		assert.InDelta(t, 30, result.TotalValue, 1e-9)
	})

	t.Run("underutilized recommendation below fifty percent", func(t *testing.T) {
		available := capacity.Vector{Weight: 100, Volume: 100, Items: 10}
		items := []capacity.Item{
			{ID: "tiny", Weight: 1, Volume: 1, Value: 5},
		}

		result := capacity.Optimize(available, items)
		assert.True(t, result.CanFitAll)
		require.Len(t, result.Recommendations, 1)
		assert.Equal(t, capacity.RecommendationUnderutilized, result.Recommendations[0].Code)
	})

	t.Run("item slots bind independently of weight and volume", func(t *testing.T) {
		available := capacity.Vector{Weight: 100, Volume: 100, Items: 1}
		items := []capacity.Item{
			{ID: "A", Weight: 1, Volume: 1, Value: 10},
			{ID: "B", Weight: 1, Volume: 1, Value: 5},
		}

		result := capacity.Optimize(available, items)
		assert.Equal(t, []string{"A"}, itemIDs(result.FittableItems))
		assert.Equal(t, []string{"B"}, itemIDs(result.NonFittableItems))
	})

	t.Run("boost reorders by priority", func(t *testing.T) {
		available := capacity.Vector{Weight: 4, Volume: 10, Items: 2}
		items := []capacity.Item{
			{ID: "plain", Weight: 4, Volume: 5, Value: 40},
			{ID: "urgent", Weight: 4, Volume: 5, Value: 30, Boost: 2},
		}

		// Only one fits by weight; the boosted item wins the slot.
		result := capacity.Optimize(available, items)
		assert.Equal(t, []string{"urgent"}, itemIDs(result.FittableItems))
		assert.Equal(t, []string{"plain"}, itemIDs(result.NonFittableItems))
	})

	t.Run("no candidates", func(t *testing.T) {
		result := capacity.Optimize(capacity.Vector{Weight: 10, Volume: 10, Items: 5}, nil)
		assert.True(t, result.CanFitAll)
		assert.Empty(t, result.FittableItems)
		assert.InDelta(t, 0, result.TotalValue, 1e-9)
	})
}
