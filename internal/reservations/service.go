package reservations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"busline/internal/seatmap"
	"busline/internal/shared/config"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SeatService is the slice of the seat map service the reservation flow
// needs. Narrow on purpose so tests can fake it.
type SeatService interface {
	GetSeatMap(ctx context.Context, tripID string) (*seatmap.SeatMapResponse, error)
	GetSeatsByIDs(ctx context.Context, seatIDs []uuid.UUID) ([]seatmap.Seat, error)
	ClaimSeats(ctx context.Context, tripID, reservationID uuid.UUID, seatIDs []uuid.UUID) error
	ReleaseSeats(ctx context.Context, tripID, reservationID uuid.UUID, seatIDs []uuid.UUID) (int, error)
	MarkSeatsTakenTx(tx *gorm.DB, tripID uuid.UUID, seatIDs []uuid.UUID) error
	InvalidateSeatMap(ctx context.Context, tripID uuid.UUID)
}

// TicketConfirmedEvent is published after a reservation is confirmed so the
// notification pipeline can send the e-ticket.
type TicketConfirmedEvent struct {
	ReservationID string    `json:"reservation_id"`
	TripID        string    `json:"trip_id"`
	PNR           string    `json:"pnr"`
	TotalAmount   float64   `json:"total_amount"`
	Currency      string    `json:"currency"`
	ContactMail   string    `json:"contact_mail"`
	SeatCount     int       `json:"seat_count"`
	ConfirmedAt   time.Time `json:"confirmed_at"`
}

// TicketPublisher delivers confirmation events. Delivery is best effort;
// confirmation never fails because of it.
type TicketPublisher interface {
	PublishTicketConfirmed(ctx context.Context, event TicketConfirmedEvent) error
}

type Service interface {
	Create(ctx context.Context, sessionID string, req CreateReservationRequest) (*ReservationResponse, error)
	AttachPassengers(ctx context.Context, id uuid.UUID, req AttachPassengersRequest) (*ReservationResponse, error)
	Confirm(ctx context.Context, id uuid.UUID) (*ReservationResponse, error)
	Cancel(ctx context.Context, id uuid.UUID) (*ReservationResponse, error)
	GetReservation(ctx context.Context, id uuid.UUID) (*ReservationResponse, error)
	GetByPNR(ctx context.Context, pnr string) (*ReservationResponse, error)
	ListBySession(ctx context.Context, sessionID string) ([]ReservationResponse, error)
	SetPublisher(publisher TicketPublisher)
}

type service struct {
	repo      Repository
	seats     SeatService
	pnrGen    *PNRGenerator
	publisher TicketPublisher
	cfg       *config.Config
	logger    *slog.Logger
}

func NewService(repo Repository, seats SeatService, pnrGen *PNRGenerator, cfg *config.Config, logger *slog.Logger) Service {
	return &service{
		repo:   repo,
		seats:  seats,
		pnrGen: pnrGen,
		cfg:    cfg,
		logger: logger,
	}
}

func (s *service) SetPublisher(publisher TicketPublisher) {
	s.publisher = publisher
}

// Create opens a pending reservation for the requested seats. Seats are
// validated against the trip and current occupancy but NOT locked; locking
// happens at confirmation.
func (s *service) Create(ctx context.Context, sessionID string, req CreateReservationRequest) (*ReservationResponse, error) {
	tripID, err := uuid.Parse(req.TripID)
	if err != nil {
		return nil, fmt.Errorf("invalid trip id: %w", err)
	}

	if len(req.SeatIDs) > s.cfg.Booking.MaxSeatsPerSelection {
		return nil, fmt.Errorf("%w: %d seats, limit is %d", ErrSelectionTooLarge, len(req.SeatIDs), s.cfg.Booking.MaxSeatsPerSelection)
	}

	seatIDs := make([]uuid.UUID, 0, len(req.SeatIDs))
	seen := make(map[uuid.UUID]struct{}, len(req.SeatIDs))
	for _, raw := range req.SeatIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid seat id %q: %w", raw, err)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("duplicate seat id %s", id)
		}
		seen[id] = struct{}{}
		seatIDs = append(seatIDs, id)
	}

	seats, err := s.seats.GetSeatsByIDs(ctx, seatIDs)
	if err != nil {
		return nil, err
	}
	if len(seats) != len(seatIDs) {
		return nil, fmt.Errorf("%w: %d of %d seats found", ErrSeatNotOnTrip, len(seats), len(seatIDs))
	}
	for i := range seats {
		if seats[i].TripID != tripID {
			return nil, fmt.Errorf("%w: seat %s", ErrSeatNotOnTrip, seats[i].ID)
		}
		if !seats[i].IsAvailable() {
			return nil, fmt.Errorf("%w: seat %d", ErrSeatUnavailable, seats[i].SeatNo)
		}
	}

	seatMap, err := s.seats.GetSeatMap(ctx, tripID.String())
	if err != nil {
		return nil, err
	}

	reservation := &Reservation{
		TripID:      tripID,
		SessionID:   sessionID,
		Status:      StatusPending,
		TotalAmount: Price(seatMap.UnitPrice, len(seatIDs)),
		Currency:    s.cfg.Booking.Currency,
		ContactName: req.ContactName,
		ContactMail: req.ContactMail,
	}

	// One passenger slot per seat, names filled in later.
	passengers := make([]Passenger, 0, len(seatIDs))
	for _, seatID := range seatIDs {
		passengers = append(passengers, Passenger{SeatID: seatID})
	}

	if err := s.repo.Create(ctx, reservation, passengers); err != nil {
		return nil, err
	}

	s.logger.Info("reservation created",
		"reservation_id", reservation.ID,
		"trip_id", tripID,
		"seats", len(seatIDs),
		"total", reservation.TotalAmount,
	)

	resp := reservation.ToResponse()
	return &resp, nil
}

// AttachPassengers assigns traveller details to every reserved seat. The
// passenger list must cover the reservation's seats exactly.
func (s *service) AttachPassengers(ctx context.Context, id uuid.UUID, req AttachPassengersRequest) (*ReservationResponse, error) {
	reservation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reservation.Status != StatusPending {
		return nil, fmt.Errorf("%w: status is %s", ErrNotPending, reservation.Status)
	}

	reserved := make(map[uuid.UUID]struct{}, len(reservation.Passengers))
	for i := range reservation.Passengers {
		reserved[reservation.Passengers[i].SeatID] = struct{}{}
	}
	if len(req.Passengers) != len(reserved) {
		return nil, fmt.Errorf("%w: got %d passengers for %d seats", ErrSeatCountMismatch, len(req.Passengers), len(reserved))
	}

	passengers := make([]Passenger, 0, len(req.Passengers))
	assigned := make(map[uuid.UUID]struct{}, len(req.Passengers))
	for _, input := range req.Passengers {
		seatID, err := uuid.Parse(input.SeatID)
		if err != nil {
			return nil, fmt.Errorf("invalid seat id %q: %w", input.SeatID, err)
		}
		if _, ok := reserved[seatID]; !ok {
			return nil, fmt.Errorf("%w: seat %s", ErrSeatNotOnTrip, seatID)
		}
		if _, dup := assigned[seatID]; dup {
			return nil, fmt.Errorf("%w: seat %s assigned twice", ErrSeatCountMismatch, seatID)
		}
		assigned[seatID] = struct{}{}
		passengers = append(passengers, Passenger{
			SeatID:     seatID,
			FirstName:  input.FirstName,
			LastName:   input.LastName,
			NationalID: input.NationalID,
		})
	}

	if err := s.repo.UpdatePassengers(ctx, id, passengers, req.ContactName, req.ContactMail); err != nil {
		return nil, err
	}

	return s.GetReservation(ctx, id)
}

// Confirm finalizes a reservation: locks the seats, flips them to taken and
// assigns the PNR, all or nothing. Calling it again on a confirmed
// reservation returns the existing ticket unchanged.
func (s *service) Confirm(ctx context.Context, id uuid.UUID) (*ReservationResponse, error) {
	reservation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if reservation.IsConfirmed() {
		resp := reservation.ToResponse()
		return &resp, nil
	}
	if reservation.Status == StatusCancelled {
		return nil, ErrCancelled
	}

	pnr, err := s.generateUniquePNR(ctx)
	if err != nil {
		return nil, err
	}

	seatIDs := reservation.SeatIDs()

	// Redis-side claim first: every seat or none.
	if err := s.seats.ClaimSeats(ctx, reservation.TripID, reservation.ID, seatIDs); err != nil {
		return nil, err
	}

	now := time.Now()
	reservation.PNR = pnr
	reservation.ConfirmedAt = &now

	err = s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.seats.MarkSeatsTakenTx(tx, reservation.TripID, seatIDs); err != nil {
			return err
		}
		return s.repo.ConfirmTx(tx, reservation)
	})
	if err != nil {
		// A duplicate confirm can read the reservation while still pending
		// and then lose the conditional update. The stored row is the truth:
		// return its PNR, never the one generated here.
		if errors.Is(err, ErrNotPending) {
			return s.confirmedElsewhere(ctx, id)
		}
		if released, relErr := s.seats.ReleaseSeats(ctx, reservation.TripID, reservation.ID, seatIDs); relErr != nil {
			s.logger.Error("failed to release seat claims after confirm failure",
				"reservation_id", reservation.ID, "released", released, "error", relErr)
		}
		return nil, fmt.Errorf("failed to confirm reservation: %w", err)
	}

	reservation.Status = StatusConfirmed

	s.seats.InvalidateSeatMap(ctx, reservation.TripID)

	s.logger.Info("reservation confirmed",
		"reservation_id", reservation.ID,
		"pnr", pnr,
		"seats", len(seatIDs),
	)

	s.publishConfirmation(ctx, reservation)

	resp := reservation.ToResponse()
	return &resp, nil
}

// confirmedElsewhere resolves a lost confirm race against the stored row.
// The winner's claims stay in place; in the cancelled case nothing was
// written, so the claims made here are taken back.
func (s *service) confirmedElsewhere(ctx context.Context, id uuid.UUID) (*ReservationResponse, error) {
	reservation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reservation.IsConfirmed() {
		resp := reservation.ToResponse()
		return &resp, nil
	}
	if reservation.Status == StatusCancelled {
		if released, err := s.seats.ReleaseSeats(ctx, reservation.TripID, reservation.ID, reservation.SeatIDs()); err != nil {
			s.logger.Warn("failed to release claims of cancelled reservation",
				"reservation_id", id, "released", released, "error", err)
		}
		return nil, ErrCancelled
	}
	return nil, fmt.Errorf("failed to confirm reservation: %w", ErrNotPending)
}

// Cancel voids a pending reservation. No seats were taken yet, so there is
// nothing to release beyond any stale claim.
func (s *service) Cancel(ctx context.Context, id uuid.UUID) (*ReservationResponse, error) {
	reservation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reservation.Status != StatusPending {
		return nil, fmt.Errorf("%w: status is %s", ErrNotPending, reservation.Status)
	}

	if err := s.repo.UpdateStatus(ctx, id, StatusCancelled); err != nil {
		return nil, err
	}

	if released, err := s.seats.ReleaseSeats(ctx, reservation.TripID, reservation.ID, reservation.SeatIDs()); err != nil {
		s.logger.Warn("failed to release claims on cancel", "reservation_id", id, "released", released, "error", err)
	}

	reservation.Status = StatusCancelled
	resp := reservation.ToResponse()
	return &resp, nil
}

func (s *service) GetReservation(ctx context.Context, id uuid.UUID) (*ReservationResponse, error) {
	reservation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := reservation.ToResponse()
	return &resp, nil
}

func (s *service) GetByPNR(ctx context.Context, pnr string) (*ReservationResponse, error) {
	reservation, err := s.repo.GetByPNR(ctx, pnr)
	if err != nil {
		return nil, err
	}
	resp := reservation.ToResponse()
	return &resp, nil
}

func (s *service) ListBySession(ctx context.Context, sessionID string) ([]ReservationResponse, error) {
	found, err := s.repo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	results := make([]ReservationResponse, 0, len(found))
	for i := range found {
		results = append(results, found[i].ToResponse())
	}
	return results, nil
}

func (s *service) generateUniquePNR(ctx context.Context) (string, error) {
	for attempt := 0; attempt < s.cfg.Booking.PNRMaxAttempts; attempt++ {
		candidate, err := s.pnrGen.Generate()
		if err != nil {
			return "", err
		}
		exists, err := s.repo.PNRExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		s.logger.Warn("pnr collision, retrying", "attempt", attempt+1)
	}
	return "", fmt.Errorf("%w after %d attempts", ErrPNRExhausted, s.cfg.Booking.PNRMaxAttempts)
}

func (s *service) publishConfirmation(ctx context.Context, reservation *Reservation) {
	if s.publisher == nil {
		return
	}
	event := TicketConfirmedEvent{
		ReservationID: reservation.ID.String(),
		TripID:        reservation.TripID.String(),
		PNR:           reservation.PNR,
		TotalAmount:   reservation.TotalAmount,
		Currency:      reservation.Currency,
		ContactMail:   reservation.ContactMail,
		SeatCount:     len(reservation.Passengers),
		ConfirmedAt:   *reservation.ConfirmedAt,
	}
	if err := s.publisher.PublishTicketConfirmed(ctx, event); err != nil {
		s.logger.Warn("failed to publish ticket confirmation", "reservation_id", reservation.ID, "error", err)
	}
}
