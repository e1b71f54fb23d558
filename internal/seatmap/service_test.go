package seatmap

import (
	"context"
	"testing"

	"busline/internal/shared/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeSchemaRepo is an in-memory Repository for service tests.
type fakeSchemaRepo struct {
	schemas map[uuid.UUID]*SeatSchema
	seats   map[uuid.UUID]*Seat
}

func newFakeSchemaRepo() *fakeSchemaRepo {
	return &fakeSchemaRepo{
		schemas: make(map[uuid.UUID]*SeatSchema),
		seats:   make(map[uuid.UUID]*Seat),
	}
}

func (f *fakeSchemaRepo) CreateSchemaWithSeats(ctx context.Context, schema *SeatSchema, seats []Seat) error {
	schema.ID = uuid.New()
	for i := range seats {
		seats[i].ID = uuid.New()
		seats[i].SchemaID = schema.ID
		seats[i].TripID = schema.TripID
		stored := seats[i]
		f.seats[stored.ID] = &stored
	}
	schema.Seats = seats
	f.schemas[schema.TripID] = schema
	return nil
}

func (f *fakeSchemaRepo) GetSchemaByTripID(ctx context.Context, tripID uuid.UUID) (*SeatSchema, error) {
	schema, ok := f.schemas[tripID]
	if !ok {
		return nil, ErrSchemaNotFound
	}
	return schema, nil
}

func (f *fakeSchemaRepo) GetSeatByID(ctx context.Context, id uuid.UUID) (*Seat, error) {
	seat, ok := f.seats[id]
	if !ok {
		return nil, ErrSeatNotFound
	}
	return seat, nil
}

func (f *fakeSchemaRepo) GetSeatsByIDs(ctx context.Context, seatIDs []uuid.UUID) ([]Seat, error) {
	var out []Seat
	for _, id := range seatIDs {
		if s, ok := f.seats[id]; ok {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSchemaRepo) GetSeatsByTripID(ctx context.Context, tripID uuid.UUID) ([]Seat, error) {
	var out []Seat
	for _, s := range f.seats {
		if s.TripID == tripID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSchemaRepo) MarkSeatsTaken(ctx context.Context, seatIDs []uuid.UUID) error {
	for _, id := range seatIDs {
		if s, ok := f.seats[id]; ok {
			s.Status = SeatStatusTaken
		}
	}
	return nil
}

func (f *fakeSchemaRepo) MarkSeatsTakenTx(tx *gorm.DB, seatIDs []uuid.UUID) error {
	return f.MarkSeatsTaken(context.Background(), seatIDs)
}

func (f *fakeSchemaRepo) ClaimSeats(ctx context.Context, tripID, reservationID uuid.UUID, seatIDs []uuid.UUID) error {
	return nil
}

func (f *fakeSchemaRepo) ReleaseSeats(ctx context.Context, tripID, reservationID uuid.UUID, seatIDs []uuid.UUID) (int, error) {
	return 0, nil
}

func newTestService(repo Repository) Service {
	return NewService(repo, &config.Config{})
}

func TestCreateSchemaForTripTwoPlusOne(t *testing.T) {
	repo := newFakeSchemaRepo()
	svc := newTestService(repo)
	tripID := uuid.New()

	schema, err := svc.CreateSchemaForTrip(context.Background(), tripID, LayoutTwoPlusOne, 500)
	require.NoError(t, err)

	// Persisted dimensions keep the historical inversion: rows holds the
	// physical column count, cols the cells per column.
	assert.Equal(t, 13, schema.Rows)
	assert.Equal(t, 4, schema.Cols)
	assert.Equal(t, 500.0, schema.UnitPrice)
	assert.Len(t, schema.Seats, 37)

	for _, seat := range schema.Seats {
		assert.Equal(t, SeatStatusEmpty, seat.Status)
		assert.Equal(t, tripID, seat.TripID)
	}
}

func TestCreateSchemaForTripUnsupportedLayoutWritesNothing(t *testing.T) {
	repo := newFakeSchemaRepo()
	svc := newTestService(repo)

	_, err := svc.CreateSchemaForTrip(context.Background(), uuid.New(), "3+2", 500)
	assert.ErrorIs(t, err, ErrUnsupportedLayout)
	assert.Empty(t, repo.schemas)
	assert.Empty(t, repo.seats)
}

func TestGetSeatMapRebuildsGrid(t *testing.T) {
	repo := newFakeSchemaRepo()
	svc := newTestService(repo)
	tripID := uuid.New()

	_, err := svc.CreateSchemaForTrip(context.Background(), tripID, LayoutTwoPlusTwo, 650)
	require.NoError(t, err)

	resp, err := svc.GetSeatMap(context.Background(), tripID.String())
	require.NoError(t, err)

	assert.Equal(t, LayoutTwoPlusTwo, resp.LayoutType)
	assert.Equal(t, 650.0, resp.UnitPrice)
	require.Len(t, resp.Grid, 13)
	assert.Len(t, resp.Grid[0], 5)
	assert.Equal(t, CellCorridor, resp.Grid[0][2])
	assert.Len(t, resp.Seats, 50)
}

func TestGetSeatMapUnknownTrip(t *testing.T) {
	svc := newTestService(newFakeSchemaRepo())

	_, err := svc.GetSeatMap(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, ErrSchemaNotFound)
}

func TestCheckSeatAvailability(t *testing.T) {
	repo := newFakeSchemaRepo()
	svc := newTestService(repo)
	tripID := uuid.New()

	schema, err := svc.CreateSchemaForTrip(context.Background(), tripID, LayoutTwoPlusOne, 500)
	require.NoError(t, err)

	first := schema.Seats[0].ID
	second := schema.Seats[1].ID
	require.NoError(t, repo.MarkSeatsTaken(context.Background(), []uuid.UUID{second}))

	infos, err := svc.CheckSeatAvailability(context.Background(), SeatAvailabilityRequest{
		SeatIDs: []string{first.String(), second.String()},
	})
	require.NoError(t, err)
	require.Len(t, infos, 2)

	assert.True(t, infos[0].Available)
	assert.False(t, infos[1].Available)
	assert.Equal(t, SeatStatusTaken, infos[1].Status)
}

func TestCheckSeatAvailabilityUnknownSeat(t *testing.T) {
	svc := newTestService(newFakeSchemaRepo())

	_, err := svc.CheckSeatAvailability(context.Background(), SeatAvailabilityRequest{
		SeatIDs: []string{uuid.New().String()},
	})
	assert.ErrorIs(t, err, ErrSeatNotFound)
}
