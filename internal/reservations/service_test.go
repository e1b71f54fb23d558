package reservations

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"busline/internal/seatmap"
	"busline/internal/shared/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeRepo is an in-memory Repository. staleReads makes the next N GetByID
// calls return the reservation as it was before any confirm, which is what a
// duplicate request racing the winner observes.
type fakeRepo struct {
	reservations map[uuid.UUID]*Reservation
	confirmErr   error
	pnrTaken     map[string]bool
	staleReads   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		reservations: make(map[uuid.UUID]*Reservation),
		pnrTaken:     make(map[string]bool),
	}
}

func (f *fakeRepo) Create(ctx context.Context, r *Reservation, passengers []Passenger) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	for i := range passengers {
		passengers[i].ReservationID = r.ID
	}
	r.Passengers = passengers
	stored := *r
	stored.Passengers = append([]Passenger(nil), passengers...)
	f.reservations[r.ID] = &stored
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	stored, ok := f.reservations[id]
	if !ok {
		return nil, ErrReservationNotFound
	}
	out := *stored
	out.Passengers = append([]Passenger(nil), stored.Passengers...)
	if f.staleReads > 0 {
		f.staleReads--
		out.Status = StatusPending
		out.PNR = ""
		out.ConfirmedAt = nil
	}
	return &out, nil
}

func (f *fakeRepo) GetByPNR(ctx context.Context, pnr string) (*Reservation, error) {
	for _, r := range f.reservations {
		if r.PNR == pnr {
			out := *r
			return &out, nil
		}
	}
	return nil, ErrReservationNotFound
}

func (f *fakeRepo) ListBySession(ctx context.Context, sessionID string) ([]Reservation, error) {
	var out []Reservation
	for _, r := range f.reservations {
		if r.SessionID == sessionID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdatePassengers(ctx context.Context, id uuid.UUID, passengers []Passenger, contactName, contactMail string) error {
	stored, ok := f.reservations[id]
	if !ok {
		return ErrReservationNotFound
	}
	for i := range passengers {
		passengers[i].ReservationID = id
	}
	stored.Passengers = append([]Passenger(nil), passengers...)
	if contactName != "" {
		stored.ContactName = contactName
	}
	if contactMail != "" {
		stored.ContactMail = contactMail
	}
	return nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	stored, ok := f.reservations[id]
	if !ok {
		return ErrReservationNotFound
	}
	stored.Status = status
	return nil
}

func (f *fakeRepo) PNRExists(ctx context.Context, pnr string) (bool, error) {
	if f.pnrTaken[pnr] {
		return true, nil
	}
	for _, r := range f.reservations {
		if r.PNR == pnr {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func (f *fakeRepo) ConfirmTx(tx *gorm.DB, r *Reservation) error {
	if f.confirmErr != nil {
		return f.confirmErr
	}
	stored, ok := f.reservations[r.ID]
	if !ok {
		return ErrReservationNotFound
	}
	if stored.Status != StatusPending {
		return ErrNotPending
	}
	stored.Status = StatusConfirmed
	stored.PNR = r.PNR
	stored.ConfirmedAt = r.ConfirmedAt
	return nil
}

// fakeSeats simulates the seat map service including the Redis claim
// semantics: all-or-nothing, idempotent per owner.
type fakeSeats struct {
	seats           map[uuid.UUID]*seatmap.Seat
	claims          map[uuid.UUID]uuid.UUID // seatID -> owning reservation
	unitPrice       float64
	claimCalls      int
	invalidateCalls int
}

func newFakeSeats(unitPrice float64) *fakeSeats {
	return &fakeSeats{
		seats:     make(map[uuid.UUID]*seatmap.Seat),
		claims:    make(map[uuid.UUID]uuid.UUID),
		unitPrice: unitPrice,
	}
}

func (f *fakeSeats) addSeat(tripID uuid.UUID, seatNo int) uuid.UUID {
	id := uuid.New()
	f.seats[id] = &seatmap.Seat{ID: id, TripID: tripID, SeatNo: seatNo, Status: seatmap.SeatStatusEmpty}
	return id
}

func (f *fakeSeats) GetSeatMap(ctx context.Context, tripID string) (*seatmap.SeatMapResponse, error) {
	return &seatmap.SeatMapResponse{TripID: tripID, UnitPrice: f.unitPrice}, nil
}

func (f *fakeSeats) GetSeatsByIDs(ctx context.Context, seatIDs []uuid.UUID) ([]seatmap.Seat, error) {
	var out []seatmap.Seat
	for _, id := range seatIDs {
		if s, ok := f.seats[id]; ok {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSeats) ClaimSeats(ctx context.Context, tripID, reservationID uuid.UUID, seatIDs []uuid.UUID) error {
	f.claimCalls++
	for _, id := range seatIDs {
		if owner, claimed := f.claims[id]; claimed && owner != reservationID {
			return fmt.Errorf("%w: seat %s", seatmap.ErrSeatConflict, id)
		}
	}
	for _, id := range seatIDs {
		f.claims[id] = reservationID
	}
	return nil
}

func (f *fakeSeats) ReleaseSeats(ctx context.Context, tripID, reservationID uuid.UUID, seatIDs []uuid.UUID) (int, error) {
	released := 0
	for _, id := range seatIDs {
		if f.claims[id] == reservationID {
			delete(f.claims, id)
			released++
		}
	}
	return released, nil
}

func (f *fakeSeats) MarkSeatsTakenTx(tx *gorm.DB, tripID uuid.UUID, seatIDs []uuid.UUID) error {
	for _, id := range seatIDs {
		if s, ok := f.seats[id]; ok {
			s.Status = seatmap.SeatStatusTaken
		}
	}
	return nil
}

func (f *fakeSeats) InvalidateSeatMap(ctx context.Context, tripID uuid.UUID) {
	f.invalidateCalls++
}

func testConfig() *config.Config {
	return &config.Config{
		Booking: config.BookingConfig{
			MaxSeatsPerSelection: 4,
			PNRMaxAttempts:       5,
			Currency:             "TRY",
		},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(repo Repository, seats SeatService) Service {
	return NewService(repo, seats, NewPNRGenerator(), testConfig(), testLogger())
}

func seatIDStrings(ids ...uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func TestCreateComputesTotalFromStoredPrice(t *testing.T) {
	repo := newFakeRepo()
	seats := newFakeSeats(500)
	tripID := uuid.New()
	s1 := seats.addSeat(tripID, 1)
	s2 := seats.addSeat(tripID, 2)
	s3 := seats.addSeat(tripID, 3)

	svc := newTestService(repo, seats)

	resp, err := svc.Create(context.Background(), "sess-1", CreateReservationRequest{
		TripID:  tripID.String(),
		SeatIDs: seatIDStrings(s1, s2, s3),
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, resp.Status)
	assert.Equal(t, 1500.0, resp.TotalAmount)
	assert.Equal(t, "TRY", resp.Currency)
	assert.Len(t, resp.Passengers, 3)
	assert.Empty(t, resp.PNR)
}

func TestCreateRejectsOversizedSelection(t *testing.T) {
	repo := newFakeRepo()
	seats := newFakeSeats(500)
	tripID := uuid.New()
	ids := make([]uuid.UUID, 5)
	for i := range ids {
		ids[i] = seats.addSeat(tripID, i+1)
	}

	svc := newTestService(repo, seats)

	_, err := svc.Create(context.Background(), "sess-1", CreateReservationRequest{
		TripID:  tripID.String(),
		SeatIDs: seatIDStrings(ids...),
	})
	assert.ErrorIs(t, err, ErrSelectionTooLarge)
}

func TestCreateRejectsForeignSeat(t *testing.T) {
	repo := newFakeRepo()
	seats := newFakeSeats(500)
	tripID := uuid.New()
	otherTrip := uuid.New()
	mine := seats.addSeat(tripID, 1)
	foreign := seats.addSeat(otherTrip, 1)

	svc := newTestService(repo, seats)

	_, err := svc.Create(context.Background(), "sess-1", CreateReservationRequest{
		TripID:  tripID.String(),
		SeatIDs: seatIDStrings(mine, foreign),
	})
	assert.ErrorIs(t, err, ErrSeatNotOnTrip)
}

func TestCreateRejectsTakenSeat(t *testing.T) {
	repo := newFakeRepo()
	seats := newFakeSeats(500)
	tripID := uuid.New()
	taken := seats.addSeat(tripID, 1)
	seats.seats[taken].Status = seatmap.SeatStatusTaken

	svc := newTestService(repo, seats)

	_, err := svc.Create(context.Background(), "sess-1", CreateReservationRequest{
		TripID:  tripID.String(),
		SeatIDs: seatIDStrings(taken),
	})
	assert.ErrorIs(t, err, ErrSeatUnavailable)
}

func TestConfirmAssignsPNRAndTakesSeats(t *testing.T) {
	repo := newFakeRepo()
	seats := newFakeSeats(500)
	tripID := uuid.New()
	s1 := seats.addSeat(tripID, 1)
	s2 := seats.addSeat(tripID, 2)

	svc := newTestService(repo, seats)

	created, err := svc.Create(context.Background(), "sess-1", CreateReservationRequest{
		TripID:  tripID.String(),
		SeatIDs: seatIDStrings(s1, s2),
	})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	confirmed, err := svc.Confirm(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, StatusConfirmed, confirmed.Status)
	assert.Regexp(t, `^PNR_[A-Z2-9]{6}$`, confirmed.PNR)
	assert.NotNil(t, confirmed.ConfirmedAt)
	assert.Equal(t, seatmap.SeatStatusTaken, seats.seats[s1].Status)
	assert.Equal(t, seatmap.SeatStatusTaken, seats.seats[s2].Status)
	assert.Equal(t, 1, seats.invalidateCalls, "seat map cache dropped once, after commit")
}

func TestConfirmIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	seats := newFakeSeats(500)
	tripID := uuid.New()
	s1 := seats.addSeat(tripID, 1)

	svc := newTestService(repo, seats)

	created, err := svc.Create(context.Background(), "sess-1", CreateReservationRequest{
		TripID:  tripID.String(),
		SeatIDs: seatIDStrings(s1),
	})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	first, err := svc.Confirm(context.Background(), id)
	require.NoError(t, err)
	claimsAfterFirst := seats.claimCalls

	second, err := svc.Confirm(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, first.PNR, second.PNR)
	assert.Equal(t, claimsAfterFirst, seats.claimCalls, "second confirm must not reclaim")
}

func TestConfirmDuplicateRaceReturnsStoredPNR(t *testing.T) {
	repo := newFakeRepo()
	seats := newFakeSeats(500)
	tripID := uuid.New()
	s1 := seats.addSeat(tripID, 1)

	svc := newTestService(repo, seats)

	created, err := svc.Create(context.Background(), "sess-1", CreateReservationRequest{
		TripID: tripID.String(), SeatIDs: seatIDStrings(s1),
	})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	first, err := svc.Confirm(context.Background(), id)
	require.NoError(t, err)

	// A duplicate request read the reservation before the winner committed,
	// so it sees pending and runs the full confirm path again.
	repo.staleReads = 1

	second, err := svc.Confirm(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, first.PNR, second.PNR, "duplicate confirm must return the stored PNR")

	stored, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, stored.PNR, second.PNR)
	assert.Equal(t, id, seats.claims[s1], "winning claim must stay in place")
}

func TestConfirmConflictLosesCleanly(t *testing.T) {
	repo := newFakeRepo()
	seats := newFakeSeats(500)
	tripID := uuid.New()
	contested := seats.addSeat(tripID, 1)

	svc := newTestService(repo, seats)

	first, err := svc.Create(context.Background(), "sess-1", CreateReservationRequest{
		TripID: tripID.String(), SeatIDs: seatIDStrings(contested),
	})
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), "sess-2", CreateReservationRequest{
		TripID: tripID.String(), SeatIDs: seatIDStrings(contested),
	})
	require.NoError(t, err)

	_, err = svc.Confirm(context.Background(), uuid.MustParse(first.ID))
	require.NoError(t, err)

	_, err = svc.Confirm(context.Background(), uuid.MustParse(second.ID))
	assert.ErrorIs(t, err, seatmap.ErrSeatConflict)

	loser, err := svc.GetReservation(context.Background(), uuid.MustParse(second.ID))
	require.NoError(t, err)
	assert.Equal(t, StatusPending, loser.Status)
	assert.Empty(t, loser.PNR)
}

func TestConfirmReleasesClaimsOnPersistFailure(t *testing.T) {
	repo := newFakeRepo()
	seats := newFakeSeats(500)
	tripID := uuid.New()
	s1 := seats.addSeat(tripID, 1)

	svc := newTestService(repo, seats)

	created, err := svc.Create(context.Background(), "sess-1", CreateReservationRequest{
		TripID: tripID.String(), SeatIDs: seatIDStrings(s1),
	})
	require.NoError(t, err)

	repo.confirmErr = errors.New("disk full")

	_, err = svc.Confirm(context.Background(), uuid.MustParse(created.ID))
	require.Error(t, err)
	assert.Empty(t, seats.claims, "claims must be released after a failed confirm")
}

func TestConfirmPNRCollisionRetries(t *testing.T) {
	repo := newFakeRepo()
	seats := newFakeSeats(500)
	tripID := uuid.New()
	s1 := seats.addSeat(tripID, 1)

	// First candidate collides, second is free.
	calls := 0
	gen := NewPNRGeneratorWithSource(func(n int) (int, error) {
		idx := calls / pnrLength
		calls++
		return idx, nil
	})
	repo.pnrTaken["PNR_AAAAAA"] = true

	svc := NewService(repo, seats, gen, testConfig(), testLogger())

	created, err := svc.Create(context.Background(), "sess-1", CreateReservationRequest{
		TripID: tripID.String(), SeatIDs: seatIDStrings(s1),
	})
	require.NoError(t, err)

	confirmed, err := svc.Confirm(context.Background(), uuid.MustParse(created.ID))
	require.NoError(t, err)
	assert.Equal(t, "PNR_BBBBBB", confirmed.PNR)
}

func TestConfirmPNRExhausted(t *testing.T) {
	repo := newFakeRepo()
	seats := newFakeSeats(500)
	tripID := uuid.New()
	s1 := seats.addSeat(tripID, 1)

	gen := NewPNRGeneratorWithSource(func(n int) (int, error) { return 0, nil })
	repo.pnrTaken["PNR_AAAAAA"] = true

	svc := NewService(repo, seats, gen, testConfig(), testLogger())

	created, err := svc.Create(context.Background(), "sess-1", CreateReservationRequest{
		TripID: tripID.String(), SeatIDs: seatIDStrings(s1),
	})
	require.NoError(t, err)

	_, err = svc.Confirm(context.Background(), uuid.MustParse(created.ID))
	assert.ErrorIs(t, err, ErrPNRExhausted)
}

func TestAttachPassengersCountMismatch(t *testing.T) {
	repo := newFakeRepo()
	seats := newFakeSeats(500)
	tripID := uuid.New()
	s1 := seats.addSeat(tripID, 1)
	s2 := seats.addSeat(tripID, 2)

	svc := newTestService(repo, seats)

	created, err := svc.Create(context.Background(), "sess-1", CreateReservationRequest{
		TripID: tripID.String(), SeatIDs: seatIDStrings(s1, s2),
	})
	require.NoError(t, err)

	_, err = svc.AttachPassengers(context.Background(), uuid.MustParse(created.ID), AttachPassengersRequest{
		Passengers: []PassengerInput{
			{SeatID: s1.String(), FirstName: "Ayşe", LastName: "Yılmaz"},
		},
	})
	assert.ErrorIs(t, err, ErrSeatCountMismatch)
}

func TestAttachPassengersFillsNames(t *testing.T) {
	repo := newFakeRepo()
	seats := newFakeSeats(500)
	tripID := uuid.New()
	s1 := seats.addSeat(tripID, 1)
	s2 := seats.addSeat(tripID, 2)

	svc := newTestService(repo, seats)

	created, err := svc.Create(context.Background(), "sess-1", CreateReservationRequest{
		TripID: tripID.String(), SeatIDs: seatIDStrings(s1, s2),
	})
	require.NoError(t, err)

	resp, err := svc.AttachPassengers(context.Background(), uuid.MustParse(created.ID), AttachPassengersRequest{
		Passengers: []PassengerInput{
			{SeatID: s1.String(), FirstName: "Ayşe", LastName: "Yılmaz"},
			{SeatID: s2.String(), FirstName: "Mehmet", LastName: "Demir"},
		},
		ContactMail: "ayse@example.com",
	})
	require.NoError(t, err)

	assert.Len(t, resp.Passengers, 2)
	assert.Equal(t, "ayse@example.com", resp.ContactMail)
}

func TestAttachPassengersRejectsConfirmed(t *testing.T) {
	repo := newFakeRepo()
	seats := newFakeSeats(500)
	tripID := uuid.New()
	s1 := seats.addSeat(tripID, 1)

	svc := newTestService(repo, seats)

	created, err := svc.Create(context.Background(), "sess-1", CreateReservationRequest{
		TripID: tripID.String(), SeatIDs: seatIDStrings(s1),
	})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	_, err = svc.Confirm(context.Background(), id)
	require.NoError(t, err)

	_, err = svc.AttachPassengers(context.Background(), id, AttachPassengersRequest{
		Passengers: []PassengerInput{{SeatID: s1.String(), FirstName: "A", LastName: "B"}},
	})
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestCancelOnlyPending(t *testing.T) {
	repo := newFakeRepo()
	seats := newFakeSeats(500)
	tripID := uuid.New()
	s1 := seats.addSeat(tripID, 1)

	svc := newTestService(repo, seats)

	created, err := svc.Create(context.Background(), "sess-1", CreateReservationRequest{
		TripID: tripID.String(), SeatIDs: seatIDStrings(s1),
	})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	cancelled, err := svc.Cancel(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)

	_, err = svc.Confirm(context.Background(), id)
	assert.ErrorIs(t, err, ErrCancelled)

	_, err = svc.Cancel(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotPending)
}
