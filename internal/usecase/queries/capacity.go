package queries

import (
	"context"
	"time"

	"shipalong/internal/domain/capacity"
	reqdto "shipalong/internal/handler/dto/request"
	"shipalong/internal/infra"
	"shipalong/internal/infra/db"
	"shipalong/internal/pkg/errs"

	"github.com/google/uuid"
)

// Priority boost applied to urgent candidates before efficiency ranking.
const urgentPriorityBoost = 1.5

// Read models (DTO for read side)
type DimensionCheckView struct {
	Available  float64 `json:"available"`
	Required   float64 `json:"required"`
	Sufficient bool    `json:"sufficient"`
}

type CapacityCheckView struct {
	TripID         uuid.UUID                     `json:"trip_id"`
	CanFit         bool                          `json:"can_fit"`
	Dimensions     map[string]DimensionCheckView `json:"dimensions"`
	UtilizationPct map[string]float64            `json:"utilization_pct"`
}

type CapacityStatusView struct {
	TripID           uuid.UUID            `json:"trip_id"`
	Status           string               `json:"status"`
	Total            capacity.Vector      `json:"total"`
	Available        capacity.Vector      `json:"available"`
	Utilization      capacity.Utilization `json:"utilization"`
	ActiveLeaseCount int                  `json:"active_lease_count"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

type CandidateResultView struct {
	ID       string          `json:"id"`
	Required capacity.Vector `json:"required"`
	Value    float64         `json:"value"`
	Priority string          `json:"priority"`
	Accepted bool            `json:"accepted"`
	Reason   string          `json:"reason,omitempty"`
}

type RecommendationView struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type AllocationPlanView struct {
	TripID            uuid.UUID             `json:"trip_id"`
	Candidates        []CandidateResultView `json:"candidates"`
	RemainingCapacity capacity.Vector       `json:"remaining_capacity"`
	TotalValue        float64               `json:"total_value"`
	Recommendations   []RecommendationView  `json:"recommendations"`
}

type CapacityQueries interface {
	Check(ctx context.Context, tripID uuid.UUID, req reqdto.CheckCapacityRequest) (*CapacityCheckView, error)
	Status(ctx context.Context, tripID uuid.UUID) (*CapacityStatusView, error)
	OptimizeAllocation(ctx context.Context, tripID uuid.UUID, req reqdto.OptimizeAllocationRequest) (*AllocationPlanView, error)
}

type TripCapacityReader interface {
	FindByTripID(ctx context.Context, dbtx db.DBTX, tripID uuid.UUID) (*capacity.TripCapacity, error)
}

type LeaseScanner interface {
	ScanByTrip(ctx context.Context, tripID uuid.UUID) ([]*capacity.Lease, error)
}

type capacityQueriesImpl struct {
	reader TripCapacityReader
	leases LeaseScanner
	pool   db.DBTX
}

func NewCapacityQueries(reader TripCapacityReader, leases LeaseScanner, pool db.DBTX) CapacityQueries {
	return &capacityQueriesImpl{reader: reader, leases: leases, pool: pool}
}

// Check is a point-in-time read; a successful check guarantees nothing
// once concurrent reservations land. Reserve re-checks under the row lock.
func (q *capacityQueriesImpl) Check(
	ctx context.Context,
	tripID uuid.UUID,
	req reqdto.CheckCapacityRequest,
) (*CapacityCheckView, error) {
	required, err := req.Required.ToDomain()
	if err != nil {
		return nil, err
	}

	tc, err := q.findTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if !tc.Status().AcceptsReservations() {
		return nil, errs.Mark(errs.Newf("trip %s is %s", tripID, tc.Status()), errs.ErrTripNotAvailable)
	}

	report := capacity.Sufficient(tc.Available(), required)

	dimensions := make(map[string]DimensionCheckView, len(report.PerDimension))
	for dim, check := range report.PerDimension {
		dimensions[string(dim)] = DimensionCheckView{
			Available:  check.Available,
			Required:   check.Required,
			Sufficient: check.Sufficient,
		}
	}
	utilization := make(map[string]float64, len(report.UtilizationPct))
	for dim, pct := range report.UtilizationPct {
		utilization[string(dim)] = pct
	}

	return &CapacityCheckView{
		TripID:         tripID,
		CanFit:         report.CanFit,
		Dimensions:     dimensions,
		UtilizationPct: utilization,
	}, nil
}

func (q *capacityQueriesImpl) Status(ctx context.Context, tripID uuid.UUID) (*CapacityStatusView, error) {
	tc, err := q.findTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	leases, err := q.leases.ScanByTrip(ctx, tripID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrLeaseStoreFailed)
	}
	active := 0
	for _, lease := range leases {
		if lease.IsReserved() {
			active++
		}
	}

	return &CapacityStatusView{
		TripID:           tripID,
		Status:           tc.Status().String(),
		Total:            tc.Total(),
		Available:        tc.Available(),
		Utilization:      tc.Utilization(),
		ActiveLeaseCount: active,
		UpdatedAt:        tc.UpdatedAt(),
	}, nil
}

// OptimizeAllocation plans against a snapshot of available capacity and
// reserves nothing; the caller follows up with one reserve per accepted
// candidate.
func (q *capacityQueriesImpl) OptimizeAllocation(
	ctx context.Context,
	tripID uuid.UUID,
	req reqdto.OptimizeAllocationRequest,
) (*AllocationPlanView, error) {
	items := make([]capacity.Item, 0, len(req.Candidates))
	for _, candidate := range req.Candidates {
		item, err := candidateToItem(candidate)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	tc, err := q.findTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	result := capacity.Optimize(tc.Available(), items)

	priorities := make(map[string]string, len(req.Candidates))
	for _, candidate := range req.Candidates {
		priorities[candidate.ID] = normalizePriority(candidate.Priority)
	}

	candidates := make([]CandidateResultView, 0, len(items))
	for _, item := range result.FittableItems {
		candidates = append(candidates, CandidateResultView{
			ID:       item.ID,
			Required: item.Required(),
			Value:    item.Value,
			Priority: priorities[item.ID],
			Accepted: true,
		})
	}
	for _, item := range result.NonFittableItems {
		candidates = append(candidates, CandidateResultView{
			ID:       item.ID,
			Required: item.Required(),
			Value:    item.Value,
			Priority: priorities[item.ID],
			Accepted: false,
			Reason:   "insufficient remaining capacity at its rank in efficiency order",
		})
	}

	recommendations := make([]RecommendationView, 0, len(result.Recommendations))
	for _, rec := range result.Recommendations {
		recommendations = append(recommendations, RecommendationView{
			Code:    string(rec.Code),
			Message: rec.Message,
		})
	}

	return &AllocationPlanView{
		TripID:            tripID,
		Candidates:        candidates,
		RemainingCapacity: result.RemainingCapacity,
		TotalValue:        result.TotalValue,
		Recommendations:   recommendations,
	}, nil
}

func (q *capacityQueriesImpl) findTrip(ctx context.Context, tripID uuid.UUID) (*capacity.TripCapacity, error) {
	tc, err := q.reader.FindByTripID(ctx, q.pool, tripID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrTripNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return tc, nil
}

// candidateToItem translates the wire shape into an optimizer item:
// volume is either given directly or derived from length*width*height.
func candidateToItem(candidate reqdto.CandidateItemPayload) (capacity.Item, error) {
	var volume float64
	switch {
	case candidate.Volume != nil:
		volume = *candidate.Volume
	case candidate.Dimensions != nil:
		volume = candidate.Dimensions.Length * candidate.Dimensions.Width * candidate.Dimensions.Height
	default:
		return capacity.Item{}, errs.Mark(
			errs.Newf("candidate %s needs a volume or dimensions", candidate.ID),
			errs.ErrInvalidCapacityVector,
		)
	}
	if _, err := capacity.NewVector(candidate.Weight, volume, 1); err != nil {
		return capacity.Item{}, err
	}

	item := capacity.Item{
		ID:     candidate.ID,
		Weight: candidate.Weight,
		Volume: volume,
		Value:  candidate.Value,
	}
	if normalizePriority(candidate.Priority) == "urgent" {
		item.Boost = urgentPriorityBoost
	}
	return item, nil
}

func normalizePriority(priority string) string {
	if priority == "urgent" {
		return "urgent"
	}
	return "normal"
}
