package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"busline/internal/reservations"

	"github.com/google/uuid"
)

var ErrPaymentFailed = errors.New("payment failed")

type Service interface {
	Pay(ctx context.Context, req CreatePaymentRequest) (*PaymentResponse, error)
	GetPayment(ctx context.Context, id uuid.UUID) (*PaymentResponse, error)
	ListByReservation(ctx context.Context, reservationID uuid.UUID) ([]PaymentResponse, error)
}

type service struct {
	repo    Repository
	gateway Gateway
	resv    reservations.Service
	logger  *slog.Logger
}

func NewService(repo Repository, gateway Gateway, resv reservations.Service, logger *slog.Logger) Service {
	return &service{
		repo:    repo,
		gateway: gateway,
		resv:    resv,
		logger:  logger,
	}
}

// Pay charges the reservation's stored total and, on success, confirms the
// reservation. Paying an already confirmed reservation is a no-op that
// returns the existing ticket.
func (s *service) Pay(ctx context.Context, req CreatePaymentRequest) (*PaymentResponse, error) {
	reservationID, err := uuid.Parse(req.ReservationID)
	if err != nil {
		return nil, fmt.Errorf("invalid reservation id: %w", err)
	}

	reservation, err := s.resv.GetReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	if reservation.Status == reservations.StatusConfirmed {
		resp := PaymentResponse{
			ReservationID: req.ReservationID,
			Amount:        reservation.TotalAmount,
			Currency:      reservation.Currency,
			Method:        MethodCard,
			Status:        StatusCompleted,
			Reservation:   reservation,
		}
		return &resp, nil
	}
	if reservation.Status == reservations.StatusCancelled {
		return nil, reservations.ErrCancelled
	}

	payment := &Payment{
		ReservationID: reservationID,
		Amount:        reservation.TotalAmount,
		Currency:      reservation.Currency,
		Method:        MethodCard,
		Status:        StatusPending,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, err
	}

	card := CardDetails{
		Holder:      req.CardHolder,
		Number:      req.CardNumber,
		ExpiryMonth: req.ExpiryMonth,
		ExpiryYear:  req.ExpiryYear,
		CVV:         req.CVV,
	}

	txnID, err := s.gateway.Charge(ctx, payment.Amount, payment.Currency, card)
	processedAt := time.Now().UTC()
	payment.ProcessedAt = &processedAt
	if err != nil {
		payment.Status = StatusFailed
		payment.FailureReason = err.Error()
		if updErr := s.repo.Update(ctx, payment); updErr != nil {
			s.logger.Error("failed to record declined payment", "payment_id", payment.ID, "error", updErr)
		}
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}

	payment.TransactionID = txnID

	confirmed, err := s.resv.Confirm(ctx, reservationID)
	if err != nil {
		// The charge went through but seats were lost to a concurrent
		// booking. Record the failure; refunds are an offline process.
		payment.Status = StatusFailed
		payment.FailureReason = fmt.Sprintf("confirmation failed: %v", err)
		if updErr := s.repo.Update(ctx, payment); updErr != nil {
			s.logger.Error("failed to record failed confirmation", "payment_id", payment.ID, "error", updErr)
		}
		return nil, err
	}

	payment.Status = StatusCompleted
	if err := s.repo.Update(ctx, payment); err != nil {
		s.logger.Error("failed to record completed payment", "payment_id", payment.ID, "error", err)
	}

	s.logger.Info("payment completed",
		"payment_id", payment.ID,
		"reservation_id", reservationID,
		"transaction_id", txnID,
		"amount", payment.Amount,
	)

	resp := payment.ToResponse()
	resp.Reservation = confirmed
	return &resp, nil
}

func (s *service) GetPayment(ctx context.Context, id uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := payment.ToResponse()
	return &resp, nil
}

func (s *service) ListByReservation(ctx context.Context, reservationID uuid.UUID) ([]PaymentResponse, error) {
	found, err := s.repo.ListByReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	results := make([]PaymentResponse, 0, len(found))
	for i := range found {
		results = append(results, found[i].ToResponse())
	}
	return results, nil
}
