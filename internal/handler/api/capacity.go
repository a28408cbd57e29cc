package api

import (
	"errors"
	"net/http"

	reqdto "shipalong/internal/handler/dto/request"
	resdto "shipalong/internal/handler/dto/response"
	"shipalong/internal/handler/httperr"
	"shipalong/internal/pkg/errs"
	"shipalong/internal/usecase/commands"
	"shipalong/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CapacityHandler struct {
	cmds commands.CapacityCommands
	q    queries.CapacityQueries
}

func NewCapacityHandler(cmds commands.CapacityCommands, q queries.CapacityQueries) *CapacityHandler {
	return &CapacityHandler{cmds: cmds, q: q}
}

// @Summary Create trip capacity
// @Description Register the capacity record for a new trip
// @Tags capacity
// @Accept json
// @Produce json
// @Param tripId path string true "Trip ID"
// @Param request body reqdto.CreateTripCapacityRequest true "Total capacity"
// @Success 201 {object} resdto.TripCapacityResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /trips/{tripId}/capacity [post]
func (h *CapacityHandler) Create(c *gin.Context) {
	tripID, ok := h.tripID(c)
	if !ok {
		return
	}
	var req reqdto.CreateTripCapacityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	tc, err := h.cmds.CreateTripCapacity(c.Request.Context(), tripID, req)
	if err != nil {
		h.abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromTripCapacity(tc))
}

// @Summary Check capacity
// @Description Point-in-time sufficiency check; creates no hold
// @Tags capacity
// @Accept json
// @Produce json
// @Param tripId path string true "Trip ID"
// @Param request body reqdto.CheckCapacityRequest true "Required capacity"
// @Success 200 {object} resdto.CapacityCheckResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /trips/{tripId}/capacity/check [post]
func (h *CapacityHandler) Check(c *gin.Context) {
	tripID, ok := h.tripID(c)
	if !ok {
		return
	}
	var req reqdto.CheckCapacityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	view, err := h.q.Check(c.Request.Context(), tripID, req)
	if err != nil {
		h.abortDomainError(c, err)
		return
	}
	resp, err := resdto.FromCapacityCheckView(view)
	if err != nil {
		h.abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Reserve capacity
// @Description Place a TTL-leased hold on trip capacity
// @Tags capacity
// @Accept json
// @Produce json
// @Param tripId path string true "Trip ID"
// @Param request body reqdto.ReserveCapacityRequest true "Reservation request"
// @Success 201 {object} resdto.ReserveCapacityResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /trips/{tripId}/capacity/reserve [post]
func (h *CapacityHandler) Reserve(c *gin.Context) {
	tripID, ok := h.tripID(c)
	if !ok {
		return
	}
	var req reqdto.ReserveCapacityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	result, err := h.cmds.Reserve(c.Request.Context(), tripID, req)
	if err != nil {
		h.abortDomainError(c, err)
		return
	}
	resp, err := resdto.FromReserveResult(result)
	if err != nil {
		h.abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// @Summary Confirm reservation
// @Description Mark a held reservation permanent; capacity stays debited
// @Tags capacity
// @Accept json
// @Produce json
// @Param tripId path string true "Trip ID"
// @Param request body reqdto.ConfirmReservationRequest true "Confirmation request"
// @Success 200 {object} resdto.ConfirmReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /trips/{tripId}/capacity/confirm [post]
func (h *CapacityHandler) Confirm(c *gin.Context) {
	tripID, ok := h.tripID(c)
	if !ok {
		return
	}
	var req reqdto.ConfirmReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	result, err := h.cmds.Confirm(c.Request.Context(), tripID, req)
	if err != nil {
		h.abortDomainError(c, err)
		return
	}
	resp, err := resdto.FromConfirmResult(result)
	if err != nil {
		h.abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Release capacity
// @Description Return a held reservation's capacity to the trip
// @Tags capacity
// @Accept json
// @Produce json
// @Param tripId path string true "Trip ID"
// @Param request body reqdto.ReleaseCapacityRequest true "Release request"
// @Success 200 {object} resdto.ReleaseCapacityResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /trips/{tripId}/capacity/release [post]
func (h *CapacityHandler) Release(c *gin.Context) {
	tripID, ok := h.tripID(c)
	if !ok {
		return
	}
	var req reqdto.ReleaseCapacityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	result, err := h.cmds.Release(c.Request.Context(), tripID, req.ReservationID)
	if err != nil {
		h.abortDomainError(c, err)
		return
	}
	resp, err := resdto.FromReleaseResult(result)
	if err != nil {
		h.abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Release all holds for a trip
// @Description Best-effort release of every reserved lease on the trip
// @Tags capacity
// @Produce json
// @Param tripId path string true "Trip ID"
// @Success 200 {object} resdto.BulkReleaseResponse
// @Failure 400 {object} map[string]string
// @Router /trips/{tripId}/capacity/release-all [post]
func (h *CapacityHandler) ReleaseAll(c *gin.Context) {
	tripID, ok := h.tripID(c)
	if !ok {
		return
	}
	released, err := h.cmds.ReleaseAllForTrip(c.Request.Context(), tripID)
	if err != nil {
		h.abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.BulkReleaseResponse{TripID: tripID, Released: released})
}

// @Summary Get capacity status
// @Description Totals, availability, utilization and active hold count
// @Tags capacity
// @Produce json
// @Param tripId path string true "Trip ID"
// @Success 200 {object} resdto.CapacityStatusResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /trips/{tripId}/capacity [get]
func (h *CapacityHandler) Status(c *gin.Context) {
	tripID, ok := h.tripID(c)
	if !ok {
		return
	}
	view, err := h.q.Status(c.Request.Context(), tripID)
	if err != nil {
		h.abortDomainError(c, err)
		return
	}
	resp, err := resdto.FromCapacityStatusView(view)
	if err != nil {
		h.abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Update trip status
// @Description Move the trip through its lifecycle; cancelling releases all holds
// @Tags capacity
// @Accept json
// @Param tripId path string true "Trip ID"
// @Param request body reqdto.UpdateTripStatusRequest true "New status"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /trips/{tripId}/capacity/status [put]
func (h *CapacityHandler) UpdateStatus(c *gin.Context) {
	tripID, ok := h.tripID(c)
	if !ok {
		return
	}
	var req reqdto.UpdateTripStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	if err := h.cmds.UpdateTripStatus(c.Request.Context(), tripID, req); err != nil {
		h.abortDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Optimize allocation
// @Description Plan the best-fitting subset of candidate items; reserves nothing
// @Tags capacity
// @Accept json
// @Produce json
// @Param tripId path string true "Trip ID"
// @Param request body reqdto.OptimizeAllocationRequest true "Candidate items"
// @Success 200 {object} resdto.AllocationPlanResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /trips/{tripId}/capacity/optimize [post]
func (h *CapacityHandler) Optimize(c *gin.Context) {
	tripID, ok := h.tripID(c)
	if !ok {
		return
	}
	var req reqdto.OptimizeAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	view, err := h.q.OptimizeAllocation(c.Request.Context(), tripID, req)
	if err != nil {
		h.abortDomainError(c, err)
		return
	}
	resp, err := resdto.FromAllocationPlanView(view)
	if err != nil {
		h.abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CapacityHandler) tripID(c *gin.Context) (uuid.UUID, bool) {
	tripID, err := uuid.Parse(c.Param("tripId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid trip id", nil)
		return uuid.Nil, false
	}
	return tripID, true
}

// abortDomainError maps the error taxonomy to HTTP statuses: not-found
// to 404, rejected-but-expected preconditions to 409, validation to 400,
// everything else (invariant violations included) to 500.
func (h *CapacityHandler) abortDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrTripNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Trip not found", nil)
	case errors.Is(err, errs.ErrReservationNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Reservation not found", nil)
	case errors.Is(err, errs.ErrTripNotAvailable):
		httperr.AbortWithError(c, http.StatusConflict, err, "Trip not available for reservations", nil)
	case errors.Is(err, errs.ErrInsufficientCapacity):
		httperr.AbortWithError(c, http.StatusConflict, err, "Insufficient capacity", nil)
	case errors.Is(err, errs.ErrTripCapacityExists):
		httperr.AbortWithError(c, http.StatusConflict, err, "Trip capacity already exists", nil)
	case errors.Is(err, errs.ErrReservationExists):
		httperr.AbortWithError(c, http.StatusConflict, err, "Reservation already exists", nil)
	case errors.Is(err, errs.ErrInvalidStatusTransition):
		httperr.AbortWithError(c, http.StatusConflict, err, "Trip status transition not allowed", nil)
	case errors.Is(err, errs.ErrInvalidHoldTime),
		errors.Is(err, errs.ErrInvalidCapacityVector),
		errors.Is(err, errs.ErrInvalidReservationID),
		errors.Is(err, errs.ErrInvalidTripStatus):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
