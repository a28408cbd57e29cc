package capacity

import "slices"

// Item is one candidate delivery competing for a trip's remaining capacity.
// Each item occupies exactly one item slot in addition to its weight and
// volume. Boost scales the efficiency score; callers use it for priority
// weighting and leave it zero for the default.
type Item struct {
	ID     string
	Weight float64
	Volume float64
	Value  float64
	Boost  float64
}

// Required is the capacity vector the item consumes when accepted.
func (i Item) Required() Vector {
	return Vector{Weight: i.Weight, Volume: i.Volume, Items: 1}
}

// Efficiency is value per capacity unit. Volume is scaled down relative to
// weight because weight is the usual binding constraint.
func (i Item) Efficiency() float64 {
	denominator := i.Weight + i.Volume/10
	if denominator <= 0 {
		return 0
	}
	boost := i.Boost
	if boost <= 0 {
		boost = 1
	}
	return i.Value * boost / denominator
}

type RecommendationCode string

const (
	RecommendationCapacityExceeded RecommendationCode = "capacity_exceeded"
	RecommendationUnderutilized    RecommendationCode = "underutilized"
)

type Recommendation struct {
	Code    RecommendationCode
	Message string
}

type AllocationResult struct {
	CanFitAll         bool
	FittableItems     []Item
	NonFittableItems  []Item
	RemainingCapacity Vector
	TotalValue        float64
	Recommendations   []Recommendation
}

const underutilizedThresholdPct = 50

// Optimize selects the subset of items that fits into available while
// maximizing aggregate value: items are sorted descending by efficiency
// (stable, so ties keep input order) and then fitted greedily against the
// shrinking available vector. Items that do not fit are rejected without
// back-tracking. This is a deterministic O(n log n) heuristic, not an exact
// knapsack solver; sub-optimal packings are an accepted trade-off.
func Optimize(available Vector, items []Item) AllocationResult {
	ranked := make([]Item, len(items))
	copy(ranked, items)
	slices.SortStableFunc(ranked, func(a, b Item) int {
		ea, eb := a.Efficiency(), b.Efficiency()
		if ea > eb {
			return -1
		}
		if ea < eb {
			return 1
		}
		return 0
	})

	result := AllocationResult{
		FittableItems:     make([]Item, 0, len(ranked)),
		NonFittableItems:  make([]Item, 0),
		RemainingCapacity: available,
	}

	for _, item := range ranked {
		remaining, err := Debit(result.RemainingCapacity, item.Required())
		if err != nil {
			result.NonFittableItems = append(result.NonFittableItems, item)
			continue
		}
		result.RemainingCapacity = remaining
		result.FittableItems = append(result.FittableItems, item)
		result.TotalValue += item.Value
	}

	result.CanFitAll = len(result.NonFittableItems) == 0
	result.Recommendations = buildRecommendations(available, result)
	return result
}

func buildRecommendations(available Vector, result AllocationResult) []Recommendation {
	var recommendations []Recommendation

	if !result.CanFitAll {
		recommendations = append(recommendations, Recommendation{
			Code:    RecommendationCapacityExceeded,
			Message: "not all candidate items fit the remaining capacity; consider a larger trip or fewer items",
		})
	}

	utilization := ComputeUtilization(available, result.RemainingCapacity)
	if utilization.Overall < underutilizedThresholdPct {
		recommendations = append(recommendations, Recommendation{
			Code:    RecommendationUnderutilized,
			Message: "the selected items use less than half of the available capacity; consider adding more items",
		})
	}

	return recommendations
}
