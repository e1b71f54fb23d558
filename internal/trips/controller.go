package trips

import (
	"errors"
	"net/http"

	"busline/internal/seatmap"
	"busline/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GET /api/v1/trips
func (c *Controller) SearchTrips(ctx *gin.Context) {
	var query SearchQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid search filters", nil, err.Error())
		return
	}

	results, err := c.service.SearchTrips(ctx.Request.Context(), query)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to search trips", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Trips retrieved successfully", results, nil)
}

// GET /api/v1/trips/:tripId
func (c *Controller) GetTrip(ctx *gin.Context) {
	tripID, err := uuid.Parse(ctx.Param("tripId"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid trip ID", nil, err.Error())
		return
	}

	trip, err := c.service.GetTrip(ctx.Request.Context(), tripID)
	if err != nil {
		if errors.Is(err, ErrTripNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Trip not found", nil, err.Error())
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get trip", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Trip retrieved successfully", trip, nil)
}

// POST /api/v1/admin/trips
func (c *Controller) CreateTrip(ctx *gin.Context) {
	var req CreateTripRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request payload", nil, err.Error())
		return
	}

	trip, err := c.service.CreateTrip(ctx.Request.Context(), req)
	if err != nil {
		if errors.Is(err, seatmap.ErrUnsupportedLayout) {
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Unsupported seat layout", nil, err.Error())
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create trip", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Trip created successfully", trip, nil)
}

// DELETE /api/v1/admin/trips/:tripId
func (c *Controller) DeleteTrip(ctx *gin.Context) {
	tripID, err := uuid.Parse(ctx.Param("tripId"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid trip ID", nil, err.Error())
		return
	}

	if err := c.service.DeleteTrip(ctx.Request.Context(), tripID); err != nil {
		if errors.Is(err, ErrTripNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Trip not found", nil, err.Error())
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to delete trip", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Trip deleted successfully", nil, nil)
}
