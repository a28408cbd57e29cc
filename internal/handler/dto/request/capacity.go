package request

import (
	"shipalong/internal/domain/capacity"
	"shipalong/internal/pkg/errs"

	"github.com/google/uuid"
)

type CapacityVectorPayload struct {
	Weight float64 `json:"weight" binding:"gte=0"`
	Volume float64 `json:"volume" binding:"gte=0"`
	Items  int     `json:"items" binding:"gte=0"`
}

func (p CapacityVectorPayload) ToDomain() (capacity.Vector, error) {
	return capacity.NewVector(p.Weight, p.Volume, p.Items)
}

type CreateTripCapacityRequest struct {
	WeightCapacity float64 `json:"weight_capacity" binding:"gte=0"`
	VolumeCapacity float64 `json:"volume_capacity" binding:"gte=0"`
	ItemCapacity   int     `json:"item_capacity" binding:"gte=0"`
}

func (r CreateTripCapacityRequest) ToDomain() (capacity.Vector, error) {
	return capacity.NewVector(r.WeightCapacity, r.VolumeCapacity, r.ItemCapacity)
}

type CheckCapacityRequest struct {
	Required CapacityVectorPayload `json:"required" binding:"required"`
}

type ReserveCapacityRequest struct {
	ReservationID   string                `json:"reservation_id" binding:"required"`
	Required        CapacityVectorPayload `json:"required" binding:"required"`
	HoldTimeMinutes *int                  `json:"hold_time_minutes,omitempty" binding:"omitempty,min=1,max=60"`
}

type ReleaseCapacityRequest struct {
	ReservationID string `json:"reservation_id" binding:"required"`
}

type ConfirmReservationRequest struct {
	ReservationID string    `json:"reservation_id" binding:"required"`
	DeliveryID    uuid.UUID `json:"delivery_id" binding:"required"`
}

type UpdateTripStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (r UpdateTripStatusRequest) ToDomain() (capacity.TripStatus, error) {
	status := capacity.TripStatus(r.Status)
	if !status.IsValid() {
		return "", errs.Mark(errs.Newf("unknown trip status %q", r.Status), errs.ErrInvalidTripStatus)
	}
	return status, nil
}

type DimensionsPayload struct {
	Length float64 `json:"length" binding:"gt=0"`
	Width  float64 `json:"width" binding:"gt=0"`
	Height float64 `json:"height" binding:"gt=0"`
}

type CandidateItemPayload struct {
	ID         string             `json:"id" binding:"required"`
	Weight     float64            `json:"weight" binding:"gte=0"`
	Volume     *float64           `json:"volume,omitempty" binding:"omitempty,gte=0"`
	Dimensions *DimensionsPayload `json:"dimensions,omitempty"`
	Value      float64            `json:"value" binding:"gte=0"`
	Priority   string             `json:"priority,omitempty"`
}

type OptimizeAllocationRequest struct {
	Candidates []CandidateItemPayload `json:"candidates" binding:"required,min=1,dive"`
}
