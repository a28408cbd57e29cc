package capacity

import (
	"math"

	"shipalong/internal/pkg/errs"
)

type Dimension string

const (
	DimensionWeight Dimension = "weight"
	DimensionVolume Dimension = "volume"
	DimensionItems  Dimension = "items"
)

// Vector is the {weight, volume, items} triple describing total, available,
// or required capacity. A fixed three-field value type: every dimension is
// always present, never an open-ended map.
type Vector struct {
	Weight float64 `json:"weight"`
	Volume float64 `json:"volume"`
	Items  int     `json:"items"`
}

func NewVector(weight, volume float64, items int) (Vector, error) {
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight < 0 {
		return Vector{}, errs.Mark(errs.Newf("weight must be a finite non-negative number, got %v", weight), errs.ErrInvalidCapacityVector)
	}
	if math.IsNaN(volume) || math.IsInf(volume, 0) || volume < 0 {
		return Vector{}, errs.Mark(errs.Newf("volume must be a finite non-negative number, got %v", volume), errs.ErrInvalidCapacityVector)
	}
	if items < 0 {
		return Vector{}, errs.Mark(errs.Newf("items must be non-negative, got %d", items), errs.ErrInvalidCapacityVector)
	}
	return Vector{Weight: weight, Volume: volume, Items: items}, nil
}

func (v Vector) IsZero() bool {
	return v.Weight == 0 && v.Volume == 0 && v.Items == 0
}

type DimensionCheck struct {
	Available  float64
	Required   float64
	Sufficient bool
}

type SufficiencyReport struct {
	CanFit         bool
	PerDimension   map[Dimension]DimensionCheck
	UtilizationPct map[Dimension]float64
}

// Sufficient reports whether required fits into available. All three
// dimensions must fit simultaneously; there are no partial fits.
// UtilizationPct is the share of available each required dimension would
// consume, capped at 100.
func Sufficient(available, required Vector) SufficiencyReport {
	checks := map[Dimension]DimensionCheck{
		DimensionWeight: {Available: available.Weight, Required: required.Weight, Sufficient: available.Weight >= required.Weight},
		DimensionVolume: {Available: available.Volume, Required: required.Volume, Sufficient: available.Volume >= required.Volume},
		DimensionItems:  {Available: float64(available.Items), Required: float64(required.Items), Sufficient: available.Items >= required.Items},
	}

	canFit := true
	utilization := make(map[Dimension]float64, len(checks))
	for dim, check := range checks {
		canFit = canFit && check.Sufficient
		utilization[dim] = consumptionPct(check.Available, check.Required)
	}

	return SufficiencyReport{
		CanFit:         canFit,
		PerDimension:   checks,
		UtilizationPct: utilization,
	}
}

func consumptionPct(available, required float64) float64 {
	if available <= 0 {
		if required > 0 {
			return 100
		}
		return 0
	}
	pct := required / available * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// Debit subtracts required from available per dimension. Required must
// fit; Debit re-checks even when the caller already ran Sufficient.
func Debit(available, required Vector) (Vector, error) {
	if !Sufficient(available, required).CanFit {
		return Vector{}, errs.ErrInsufficientCapacity
	}
	return Vector{
		Weight: available.Weight - required.Weight,
		Volume: available.Volume - required.Volume,
		Items:  available.Items - required.Items,
	}, nil
}

// Credit adds toRelease back to available. Each dimension clamps to total;
// available never exceeds it regardless of how many times a hold is credited.
func Credit(available, toRelease, total Vector) Vector {
	return Vector{
		Weight: math.Min(available.Weight+toRelease.Weight, total.Weight),
		Volume: math.Min(available.Volume+toRelease.Volume, total.Volume),
		Items:  min(available.Items+toRelease.Items, total.Items),
	}
}

type Utilization struct {
	Weight  float64
	Volume  float64
	Items   float64
	Overall float64
}

// ComputeUtilization reports the consumed share of each dimension as a
// percentage, 0 when a dimension's total is zero. Overall is the unweighted
// mean of the three.
func ComputeUtilization(total, available Vector) Utilization {
	u := Utilization{
		Weight: usedPct(total.Weight, available.Weight),
		Volume: usedPct(total.Volume, available.Volume),
		Items:  usedPct(float64(total.Items), float64(available.Items)),
	}
	u.Overall = (u.Weight + u.Volume + u.Items) / 3
	return u
}

func usedPct(total, available float64) float64 {
	if total <= 0 {
		return 0
	}
	return (total - available) / total * 100
}
