package selection

import (
	"errors"
	"net/http"

	"busline/internal/seatmap"
	"busline/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

// SessionHeader identifies the browsing session a selection belongs to.
const SessionHeader = "X-Session-ID"

type Controller struct {
	registry *Registry
	seatMaps seatmap.Service
}

func NewController(registry *Registry, seatMaps seatmap.Service) *Controller {
	return &Controller{
		registry: registry,
		seatMaps: seatMaps,
	}
}

// ToggleRequest adds or removes one seat from the session's selection
type ToggleRequest struct {
	SeatID string `json:"seat_id" binding:"required,uuid"`
}

// SelectionResponse is the state of a selection after an operation
type SelectionResponse struct {
	TripID        string   `json:"trip_id"`
	SeatIDs       []string `json:"seat_ids"`
	Count         int      `json:"count"`
	Total         float64  `json:"total"`
	LimitExceeded bool     `json:"limit_exceeded,omitempty"`
	Warning       string   `json:"warning,omitempty"`
}

func (c *Controller) Toggle(ctx *gin.Context) {
	sessionID := ctx.GetHeader(SessionHeader)
	if sessionID == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Session ID is required", nil, "missing "+SessionHeader+" header")
		return
	}

	tripID := ctx.Param("tripId")
	if tripID == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Trip ID is required", nil, "missing trip ID")
		return
	}

	var req ToggleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	seatMap, err := c.seatMaps.GetSeatMap(ctx.Request.Context(), tripID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, seatmap.ErrSchemaNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to load seat map", nil, err.Error())
		return
	}

	var seat *seatmap.SeatResponse
	for i := range seatMap.Seats {
		if seatMap.Seats[i].ID == req.SeatID {
			seat = &seatMap.Seats[i]
			break
		}
	}
	if seat == nil {
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Seat does not belong to trip", nil, "unknown seat ID")
		return
	}

	sel := c.registry.Get(sessionID, tripID, seatMap.UnitPrice)
	_, err = sel.Toggle(req.SeatID, seat.Status == seatmap.SeatStatusTaken)

	resp := stateOf(sel)
	switch {
	case errors.Is(err, ErrSelectionLimit):
		// Not an error to the flow: surface as a warning, selection unchanged
		resp.LimitExceeded = true
		resp.Warning = "maximum number of seats already selected"
		response.RespondJSON(ctx, "success", http.StatusOK, "Selection unchanged", resp, nil)
	case errors.Is(err, ErrSeatTaken):
		response.RespondJSON(ctx, "error", http.StatusConflict, "Seat is already taken", resp, err.Error())
	case err != nil:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to toggle seat", nil, err.Error())
	default:
		response.RespondJSON(ctx, "success", http.StatusOK, "Selection updated", resp, nil)
	}
}

func (c *Controller) GetSelection(ctx *gin.Context) {
	sessionID := ctx.GetHeader(SessionHeader)
	if sessionID == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Session ID is required", nil, "missing "+SessionHeader+" header")
		return
	}

	sel, ok := c.registry.Peek(sessionID)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusNotFound, "No active selection", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Selection retrieved successfully", stateOf(sel), nil)
}

func (c *Controller) ClearSelection(ctx *gin.Context) {
	sessionID := ctx.GetHeader(SessionHeader)
	if sessionID == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Session ID is required", nil, "missing "+SessionHeader+" header")
		return
	}

	c.registry.Drop(sessionID)
	response.RespondJSON(ctx, "success", http.StatusOK, "Selection cleared", nil, nil)
}

func stateOf(sel *Selection) SelectionResponse {
	return SelectionResponse{
		TripID:  sel.TripID(),
		SeatIDs: sel.Seats(),
		Count:   sel.Count(),
		Total:   sel.Total(),
	}
}
