package payments

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"busline/internal/reservations"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockGatewayApproves(t *testing.T) {
	gw := NewMockGateway()

	txn, err := gw.Charge(context.Background(), 1500, "TRY", CardDetails{
		Holder: "Ayşe Yılmaz", Number: "4111111111111111", ExpiryMonth: 12, ExpiryYear: 2030, CVV: "123",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(txn, "TXN_"))
	assert.Len(t, txn, len("TXN_")+8)
}

func TestMockGatewayDeclineCard(t *testing.T) {
	gw := NewMockGateway()

	_, err := gw.Charge(context.Background(), 1500, "TRY", CardDetails{
		Number: "4000 0000 0000 0002",
	})
	assert.ErrorIs(t, err, ErrCardDeclined)
}

func TestMockGatewayRejectsZeroAmount(t *testing.T) {
	gw := NewMockGateway()

	_, err := gw.Charge(context.Background(), 0, "TRY", CardDetails{Number: "4111111111111111"})
	assert.Error(t, err)
}

// fakePaymentRepo is an in-memory Repository.
type fakePaymentRepo struct {
	payments map[uuid.UUID]*Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[uuid.UUID]*Payment)}
}

func (f *fakePaymentRepo) Create(ctx context.Context, p *Payment) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	stored := *p
	f.payments[p.ID] = &stored
	return nil
}

func (f *fakePaymentRepo) Update(ctx context.Context, p *Payment) error {
	stored := *p
	f.payments[p.ID] = &stored
	return nil
}

func (f *fakePaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*Payment, error) {
	p, ok := f.payments[id]
	if !ok {
		return nil, ErrPaymentNotFound
	}
	out := *p
	return &out, nil
}

func (f *fakePaymentRepo) ListByReservation(ctx context.Context, reservationID uuid.UUID) ([]Payment, error) {
	var out []Payment
	for _, p := range f.payments {
		if p.ReservationID == reservationID {
			out = append(out, *p)
		}
	}
	return out, nil
}

// fakeReservations serves one reservation and records confirm calls.
type fakeReservations struct {
	reservations.Service
	reservation *reservations.ReservationResponse
	confirmErr  error
	confirms    int
}

func (f *fakeReservations) GetReservation(ctx context.Context, id uuid.UUID) (*reservations.ReservationResponse, error) {
	if f.reservation == nil || f.reservation.ID != id.String() {
		return nil, reservations.ErrReservationNotFound
	}
	out := *f.reservation
	return &out, nil
}

func (f *fakeReservations) Confirm(ctx context.Context, id uuid.UUID) (*reservations.ReservationResponse, error) {
	f.confirms++
	if f.confirmErr != nil {
		return nil, f.confirmErr
	}
	out := *f.reservation
	out.Status = reservations.StatusConfirmed
	out.PNR = "PNR_TESTAA"
	return &out, nil
}

func pendingReservation(amount float64) *reservations.ReservationResponse {
	return &reservations.ReservationResponse{
		ID:          uuid.New().String(),
		TripID:      uuid.New().String(),
		Status:      reservations.StatusPending,
		TotalAmount: amount,
		Currency:    "TRY",
	}
}

func validCard() CreatePaymentRequest {
	return CreatePaymentRequest{
		CardHolder:  "Ayşe Yılmaz",
		CardNumber:  "4111111111111111",
		ExpiryMonth: 12,
		ExpiryYear:  2030,
		CVV:         "123",
	}
}

func TestPayChargesStoredAmountAndConfirms(t *testing.T) {
	repo := newFakePaymentRepo()
	resv := &fakeReservations{reservation: pendingReservation(1500)}
	svc := NewService(repo, NewMockGateway(), resv, slog.New(slog.NewTextHandler(io.Discard, nil)))

	req := validCard()
	req.ReservationID = resv.reservation.ID

	resp, err := svc.Pay(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, resp.Status)
	assert.Equal(t, 1500.0, resp.Amount, "amount must come from the reservation, not the client")
	assert.True(t, strings.HasPrefix(resp.TransactionID, "TXN_"))
	assert.Equal(t, 1, resv.confirms)

	confirmed, ok := resp.Reservation.(*reservations.ReservationResponse)
	require.True(t, ok)
	assert.Equal(t, "PNR_TESTAA", confirmed.PNR)
}

func TestPayDeclinedCardRecordsFailure(t *testing.T) {
	repo := newFakePaymentRepo()
	resv := &fakeReservations{reservation: pendingReservation(800)}
	svc := NewService(repo, NewMockGateway(), resv, slog.New(slog.NewTextHandler(io.Discard, nil)))

	req := validCard()
	req.ReservationID = resv.reservation.ID
	req.CardNumber = "4000000000000002"

	_, err := svc.Pay(context.Background(), req)
	assert.ErrorIs(t, err, ErrPaymentFailed)
	assert.Equal(t, 0, resv.confirms)

	stored, err := repo.ListByReservation(context.Background(), uuid.MustParse(resv.reservation.ID))
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, StatusFailed, stored[0].Status)
}

func TestPayAlreadyConfirmedIsNoOp(t *testing.T) {
	repo := newFakePaymentRepo()
	resv := &fakeReservations{reservation: pendingReservation(800)}
	resv.reservation.Status = reservations.StatusConfirmed
	resv.reservation.PNR = "PNR_EXISTS"
	svc := NewService(repo, NewMockGateway(), resv, slog.New(slog.NewTextHandler(io.Discard, nil)))

	req := validCard()
	req.ReservationID = resv.reservation.ID

	resp, err := svc.Pay(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, resp.Status)
	assert.Equal(t, 0, resv.confirms, "no second charge, no second confirm")
	assert.Empty(t, repo.payments, "no payment row for a no-op")
}

func TestPayCancelledReservationRejected(t *testing.T) {
	repo := newFakePaymentRepo()
	resv := &fakeReservations{reservation: pendingReservation(800)}
	resv.reservation.Status = reservations.StatusCancelled
	svc := NewService(repo, NewMockGateway(), resv, slog.New(slog.NewTextHandler(io.Discard, nil)))

	req := validCard()
	req.ReservationID = resv.reservation.ID

	_, err := svc.Pay(context.Background(), req)
	assert.ErrorIs(t, err, reservations.ErrCancelled)
}

func TestPayConfirmFailureSurfaces(t *testing.T) {
	repo := newFakePaymentRepo()
	resv := &fakeReservations{
		reservation: pendingReservation(800),
		confirmErr:  reservations.ErrSeatUnavailable,
	}
	svc := NewService(repo, NewMockGateway(), resv, slog.New(slog.NewTextHandler(io.Discard, nil)))

	req := validCard()
	req.ReservationID = resv.reservation.ID

	_, err := svc.Pay(context.Background(), req)
	assert.ErrorIs(t, err, reservations.ErrSeatUnavailable)

	stored, err := repo.ListByReservation(context.Background(), uuid.MustParse(resv.reservation.ID))
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, StatusFailed, stored[0].Status)
}
