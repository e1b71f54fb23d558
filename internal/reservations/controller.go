package reservations

import (
	"errors"
	"net/http"

	"busline/internal/selection"
	"busline/internal/shared/utils/response"
	"busline/internal/trips"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
	trips   trips.Service
}

func NewController(service Service, tripService trips.Service) *Controller {
	return &Controller{service: service, trips: tripService}
}

// POST /api/v1/reservations
func (c *Controller) CreateReservation(ctx *gin.Context) {
	var req CreateReservationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request payload", nil, err.Error())
		return
	}

	sessionID := ctx.GetHeader(selection.SessionHeader)

	reservation, err := c.service.Create(ctx.Request.Context(), sessionID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSeatUnavailable):
			response.RespondJSON(ctx, "error", http.StatusConflict, "One or more seats are no longer available", nil, err.Error())
		case errors.Is(err, ErrSeatNotOnTrip), errors.Is(err, ErrSelectionTooLarge):
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid seat selection", nil, err.Error())
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create reservation", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Reservation created successfully", reservation, nil)
}

// GET /api/v1/reservations
func (c *Controller) ListReservations(ctx *gin.Context) {
	sessionID := ctx.GetHeader(selection.SessionHeader)
	if sessionID == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Session header is required", nil, nil)
		return
	}

	reservations, err := c.service.ListBySession(ctx.Request.Context(), sessionID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list reservations", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Reservations retrieved successfully", reservations, nil)
}

// GET /api/v1/reservations/:id
func (c *Controller) GetReservation(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid reservation ID", nil, err.Error())
		return
	}

	reservation, err := c.service.GetReservation(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrReservationNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Reservation not found", nil, err.Error())
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get reservation", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Reservation retrieved successfully", reservation, nil)
}

// GET /api/v1/reservations/pnr/:pnr
func (c *Controller) GetByPNR(ctx *gin.Context) {
	pnr := ctx.Param("pnr")

	reservation, err := c.service.GetByPNR(ctx.Request.Context(), pnr)
	if err != nil {
		if errors.Is(err, ErrReservationNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Reservation not found", nil, err.Error())
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get reservation", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Reservation retrieved successfully", reservation, nil)
}

// PUT /api/v1/reservations/:id/passengers
func (c *Controller) AttachPassengers(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid reservation ID", nil, err.Error())
		return
	}

	var req AttachPassengersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request payload", nil, err.Error())
		return
	}

	reservation, err := c.service.AttachPassengers(ctx.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrReservationNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Reservation not found", nil, err.Error())
		case errors.Is(err, ErrSeatCountMismatch), errors.Is(err, ErrSeatNotOnTrip):
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Passenger list does not match reserved seats", nil, err.Error())
		case errors.Is(err, ErrNotPending):
			response.RespondJSON(ctx, "error", http.StatusConflict, "Reservation can no longer be modified", nil, err.Error())
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to attach passengers", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Passengers attached successfully", reservation, nil)
}

// POST /api/v1/reservations/:id/cancel
func (c *Controller) CancelReservation(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid reservation ID", nil, err.Error())
		return
	}

	reservation, err := c.service.Cancel(ctx.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrReservationNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Reservation not found", nil, err.Error())
		case errors.Is(err, ErrNotPending):
			response.RespondJSON(ctx, "error", http.StatusConflict, "Only pending reservations can be cancelled", nil, err.Error())
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to cancel reservation", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Reservation cancelled successfully", reservation, nil)
}

// GET /api/v1/reservations/:id/ticket
func (c *Controller) DownloadTicket(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid reservation ID", nil, err.Error())
		return
	}

	resp, err := c.service.GetReservation(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrReservationNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Reservation not found", nil, err.Error())
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get reservation", nil, err.Error())
		return
	}

	if resp.Status != StatusConfirmed {
		response.RespondJSON(ctx, "error", http.StatusConflict, "Ticket is only available for confirmed reservations", nil, nil)
		return
	}

	reservation := &Reservation{
		ID:          id,
		TripID:      uuid.MustParse(resp.TripID),
		Status:      resp.Status,
		TotalAmount: resp.TotalAmount,
		Currency:    resp.Currency,
		PNR:         resp.PNR,
		ContactName: resp.ContactName,
		ContactMail: resp.ContactMail,
		ConfirmedAt: resp.ConfirmedAt,
		Passengers:  resp.Passengers,
	}

	tripInfo := TicketTripInfo{}
	if trip, err := c.trips.GetTrip(ctx.Request.Context(), reservation.TripID); err == nil {
		if trip.FromAgency != nil {
			tripInfo.From = trip.FromAgency.Name
		}
		if trip.ToAgency != nil {
			tripInfo.To = trip.ToAgency.Name
		}
		if trip.Company != nil {
			tripInfo.Company = trip.Company.Name
		}
		tripInfo.Departure = trip.Departure.Format("2006-01-02 15:04")
	}

	pdfBytes, filename, err := BuildTicketPDF(reservation, tripInfo)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to render ticket", nil, err.Error())
		return
	}

	ctx.Header("Content-Disposition", "attachment; filename="+filename)
	ctx.Data(http.StatusOK, "application/pdf", pdfBytes)
}
