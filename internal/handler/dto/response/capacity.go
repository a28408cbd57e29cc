package response

import (
	"time"

	"shipalong/internal/domain/capacity"
	"shipalong/internal/pkg/errs"
	"shipalong/internal/usecase/commands"
	"shipalong/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type VectorResponse struct {
	Weight float64 `json:"weight"`
	Volume float64 `json:"volume"`
	Items  int     `json:"items"`
}

type TripCapacityResponse struct {
	TripID    uuid.UUID      `json:"tripId"`
	Total     VectorResponse `json:"total"`
	Available VectorResponse `json:"available"`
	Status    string         `json:"status"`
}

type ReserveCapacityResponse struct {
	ReservationID string         `json:"reservationId"`
	Reserved      VectorResponse `json:"reserved"`
	Available     VectorResponse `json:"available"`
	ExpiresAt     time.Time      `json:"expiresAt"`
}

type ConfirmReservationResponse struct {
	ReservationID string         `json:"reservationId"`
	Confirmed     VectorResponse `json:"confirmed"`
	DeliveryID    uuid.UUID      `json:"deliveryId"`
	ConfirmedAt   time.Time      `json:"confirmedAt"`
}

type ReleaseCapacityResponse struct {
	ReservationID string         `json:"reservationId"`
	Released      VectorResponse `json:"released"`
	Available     VectorResponse `json:"available"`
}

type BulkReleaseResponse struct {
	TripID   uuid.UUID `json:"tripId"`
	Released int       `json:"released"`
}

type DimensionCheckResponse struct {
	Available  float64 `json:"available"`
	Required   float64 `json:"required"`
	Sufficient bool    `json:"sufficient"`
}

type CapacityCheckResponse struct {
	TripID         uuid.UUID                         `json:"tripId"`
	CanFit         bool                              `json:"canFit"`
	Dimensions     map[string]DimensionCheckResponse `json:"dimensions"`
	UtilizationPct map[string]float64                `json:"utilizationPct"`
}

type UtilizationResponse struct {
	Weight  float64 `json:"weight"`
	Volume  float64 `json:"volume"`
	Items   float64 `json:"items"`
	Overall float64 `json:"overall"`
}

type CapacityStatusResponse struct {
	TripID           uuid.UUID           `json:"tripId"`
	Status           string              `json:"status"`
	Total            VectorResponse      `json:"total"`
	Available        VectorResponse      `json:"available"`
	Utilization      UtilizationResponse `json:"utilization"`
	ActiveLeaseCount int                 `json:"activeLeaseCount"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

type CandidateResultResponse struct {
	ID       string         `json:"id"`
	Required VectorResponse `json:"required"`
	Value    float64        `json:"value"`
	Priority string         `json:"priority"`
	Accepted bool           `json:"accepted"`
	Reason   string         `json:"reason,omitempty"`
}

type RecommendationResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type AllocationPlanResponse struct {
	TripID            uuid.UUID                 `json:"tripId"`
	Candidates        []CandidateResultResponse `json:"candidates"`
	RemainingCapacity VectorResponse            `json:"remainingCapacity"`
	TotalValue        float64                   `json:"totalValue"`
	Recommendations   []RecommendationResponse  `json:"recommendations"`
}

func FromTripCapacity(tc *capacity.TripCapacity) *TripCapacityResponse {
	return &TripCapacityResponse{
		TripID:    tc.TripID(),
		Total:     fromVector(tc.Total()),
		Available: fromVector(tc.Available()),
		Status:    tc.Status().String(),
	}
}

func FromReserveResult(result *commands.ReserveResult) (*ReserveCapacityResponse, error) {
	resp := &ReserveCapacityResponse{}
	if err := deepCopy(resp, result); err != nil {
		return nil, err
	}
	return resp, nil
}

func FromConfirmResult(result *commands.ConfirmResult) (*ConfirmReservationResponse, error) {
	resp := &ConfirmReservationResponse{}
	if err := deepCopy(resp, result); err != nil {
		return nil, err
	}
	return resp, nil
}

func FromReleaseResult(result *commands.ReleaseResult) (*ReleaseCapacityResponse, error) {
	resp := &ReleaseCapacityResponse{}
	if err := deepCopy(resp, result); err != nil {
		return nil, err
	}
	return resp, nil
}

func FromCapacityCheckView(view *queries.CapacityCheckView) (*CapacityCheckResponse, error) {
	resp := &CapacityCheckResponse{}
	if err := deepCopy(resp, view); err != nil {
		return nil, err
	}
	return resp, nil
}

func FromCapacityStatusView(view *queries.CapacityStatusView) (*CapacityStatusResponse, error) {
	resp := &CapacityStatusResponse{}
	if err := deepCopy(resp, view); err != nil {
		return nil, err
	}
	return resp, nil
}

func FromAllocationPlanView(view *queries.AllocationPlanView) (*AllocationPlanResponse, error) {
	resp := &AllocationPlanResponse{}
	if err := deepCopy(resp, view); err != nil {
		return nil, err
	}
	return resp, nil
}

// deepCopy maps a usecase result onto its response shape. Deep copy is
// needed for the nested map and slice fields; a shallow copy skips
// fields whose element types differ between the two. A copier error
// means the shapes have drifted apart and must not ship as a
// zero-valued body.
func deepCopy(dst, src any) error {
	if err := copier.CopyWithOption(dst, src, copier.Option{DeepCopy: true}); err != nil {
		return errs.Wrap(err, "failed to map response")
	}
	return nil
}

func fromVector(v capacity.Vector) VectorResponse {
	return VectorResponse{Weight: v.Weight, Volume: v.Volume, Items: v.Items}
}
