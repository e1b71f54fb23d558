package payments

import (
	"errors"
	"net/http"

	"busline/internal/reservations"
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

// POST /api/v1/payments
func (c *Controller) Pay(ctx *gin.Context) {
	var req CreatePaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request payload", nil, err.Error())
		return
	}

	payment, err := c.service.Pay(ctx.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrReservationNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Reservation not found", nil, err.Error())
		case errors.Is(err, reservations.ErrCancelled):
			response.RespondJSON(ctx, "error", http.StatusConflict, "Reservation is cancelled", nil, err.Error())
		case errors.Is(err, seatmap.ErrSeatConflict):
			response.RespondJSON(ctx, "error", http.StatusConflict, "One or more seats were taken by another booking", nil, err.Error())
		case errors.Is(err, ErrPaymentFailed):
			response.RespondJSON(ctx, "error", http.StatusPaymentRequired, "Payment was declined", nil, err.Error())
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to process payment", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Payment completed successfully", payment, nil)
}

// GET /api/v1/payments/:id
func (c *Controller) GetPayment(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid payment ID", nil, err.Error())
		return
	}

	payment, err := c.service.GetPayment(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrPaymentNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Payment not found", nil, err.Error())
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get payment", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payment retrieved successfully", payment, nil)
}

// GET /api/v1/reservations/:id/payments
func (c *Controller) ListByReservation(ctx *gin.Context) {
	reservationID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid reservation ID", nil, err.Error())
		return
	}

	payments, err := c.service.ListByReservation(ctx.Request.Context(), reservationID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list payments", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payments retrieved successfully", payments, nil)
}
