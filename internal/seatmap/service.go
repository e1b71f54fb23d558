package seatmap

import (
	"context"
	"fmt"

	"busline/internal/shared/config"
	"busline/pkg/cache"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service interface defines the contract for seat map business logic
type Service interface {
	// Schema lifecycle
	CreateSchemaForTrip(ctx context.Context, tripID uuid.UUID, layoutType string, unitPrice float64) (*SeatSchema, error)

	// Seat map and status reads
	GetSeatMap(ctx context.Context, tripID string) (*SeatMapResponse, error)
	GetSeatsByIDs(ctx context.Context, seatIDs []uuid.UUID) ([]Seat, error)
	IsSeatAvailable(ctx context.Context, seatID string) (bool, error)
	CheckSeatAvailability(ctx context.Context, req SeatAvailabilityRequest) ([]SeatAvailabilityInfo, error)

	// Occupancy transitions, used by the reservation confirmation flow
	ClaimSeats(ctx context.Context, tripID, reservationID uuid.UUID, seatIDs []uuid.UUID) error
	ReleaseSeats(ctx context.Context, tripID, reservationID uuid.UUID, seatIDs []uuid.UUID) (int, error)
	MarkSeatsTakenTx(tx *gorm.DB, tripID uuid.UUID, seatIDs []uuid.UUID) error
	InvalidateSeatMap(ctx context.Context, tripID uuid.UUID)

	// SetCacheService enables read caching of seat maps
	SetCacheService(cacheService cache.Service)
}

type service struct {
	repo         Repository
	cfg          *config.Config
	cacheService cache.Service
}

// NewService creates a new seat map service instance
func NewService(repo Repository, cfg *config.Config) Service {
	return &service{
		repo: repo,
		cfg:  cfg,
	}
}

// SetCacheService enables read caching of seat maps
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

// SCHEMA LIFECYCLE

// CreateSchemaForTrip builds the layout, numbers its seats and persists
// schema plus seats in one transaction. An unsupported layout type fails
// before anything is written.
func (s *service) CreateSchemaForTrip(ctx context.Context, tripID uuid.UUID, layoutType string, unitPrice float64) (*SeatSchema, error) {
	layout, err := BuildLayout(layoutType)
	if err != nil {
		return nil, err
	}

	cells, err := layout.MarshalGrid()
	if err != nil {
		return nil, err
	}

	schema := &SeatSchema{
		TripID:     tripID,
		LayoutType: layout.Type,
		// Persisted rows/cols are inverted on purpose, see SeatSchema doc.
		Rows:      layout.PhysicalColumns,
		Cols:      layout.SeatsPerColumn,
		Cells:     cells,
		UnitPrice: unitPrice,
	}

	positions := NumberSeats(layout)
	seats := make([]Seat, 0, len(positions))
	for _, pos := range positions {
		seats = append(seats, Seat{
			SeatNo: pos.SeatNo,
			Row:    pos.Row,
			Col:    pos.Col,
			Status: SeatStatusEmpty,
		})
	}

	if err := s.repo.CreateSchemaWithSeats(ctx, schema, seats); err != nil {
		return nil, err
	}

	return schema, nil
}

// SEAT MAP READS

func (s *service) GetSeatMap(ctx context.Context, tripID string) (*SeatMapResponse, error) {
	tripUUID, err := uuid.Parse(tripID)
	if err != nil {
		return nil, fmt.Errorf("invalid trip ID: %w", err)
	}

	cacheKey := seatMapCacheKey(tripID)
	if s.cacheService != nil {
		var cached SeatMapResponse
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	schema, err := s.repo.GetSchemaByTripID(ctx, tripUUID)
	if err != nil {
		return nil, err
	}

	grid, err := ParseGrid(schema.Cells)
	if err != nil {
		return nil, err
	}

	seats := make([]SeatResponse, 0, len(schema.Seats))
	for i := range schema.Seats {
		seats = append(seats, schema.Seats[i].ToResponse())
	}

	resp := &SeatMapResponse{
		TripID:     schema.TripID.String(),
		LayoutType: schema.LayoutType,
		Rows:       schema.Rows,
		Cols:       schema.Cols,
		Grid:       grid,
		UnitPrice:  schema.UnitPrice,
		Seats:      seats,
	}

	if s.cacheService != nil {
		// Occupancy changes on every confirmation, so only a short TTL is safe
		_ = s.cacheService.Set(ctx, cacheKey, resp, s.cfg.Redis.SearchTTL)
	}

	return resp, nil
}

func (s *service) GetSeatsByIDs(ctx context.Context, seatIDs []uuid.UUID) ([]Seat, error) {
	return s.repo.GetSeatsByIDs(ctx, seatIDs)
}

func (s *service) IsSeatAvailable(ctx context.Context, seatID string) (bool, error) {
	seatUUID, err := uuid.Parse(seatID)
	if err != nil {
		return false, fmt.Errorf("invalid seat ID: %w", err)
	}

	seat, err := s.repo.GetSeatByID(ctx, seatUUID)
	if err != nil {
		return false, err
	}

	return seat.IsAvailable(), nil
}

func (s *service) CheckSeatAvailability(ctx context.Context, req SeatAvailabilityRequest) ([]SeatAvailabilityInfo, error) {
	seatIDs := make([]uuid.UUID, 0, len(req.SeatIDs))
	for _, id := range req.SeatIDs {
		seatUUID, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("invalid seat ID %q: %w", id, err)
		}
		seatIDs = append(seatIDs, seatUUID)
	}

	seats, err := s.repo.GetSeatsByIDs(ctx, seatIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get seats: %w", err)
	}

	found := make(map[string]*Seat, len(seats))
	for i := range seats {
		found[seats[i].ID.String()] = &seats[i]
	}

	infos := make([]SeatAvailabilityInfo, 0, len(req.SeatIDs))
	for _, id := range req.SeatIDs {
		seat, ok := found[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrSeatNotFound, id)
		}
		infos = append(infos, SeatAvailabilityInfo{
			SeatID:    id,
			SeatNo:    seat.SeatNo,
			Available: seat.IsAvailable(),
			Status:    seat.Status,
		})
	}

	return infos, nil
}

// OCCUPANCY TRANSITIONS

func (s *service) ClaimSeats(ctx context.Context, tripID, reservationID uuid.UUID, seatIDs []uuid.UUID) error {
	return s.repo.ClaimSeats(ctx, tripID, reservationID, seatIDs)
}

func (s *service) ReleaseSeats(ctx context.Context, tripID, reservationID uuid.UUID, seatIDs []uuid.UUID) (int, error) {
	return s.repo.ReleaseSeats(ctx, tripID, reservationID, seatIDs)
}

func (s *service) MarkSeatsTakenTx(tx *gorm.DB, tripID uuid.UUID, seatIDs []uuid.UUID) error {
	return s.repo.MarkSeatsTakenTx(tx, seatIDs)
}

// InvalidateSeatMap drops the cached seat map for a trip. Callers invoke it
// after the occupancy transaction has committed, so a concurrent read can
// never re-cache pre-commit state.
func (s *service) InvalidateSeatMap(ctx context.Context, tripID uuid.UUID) {
	if s.cacheService == nil {
		return
	}
	_ = s.cacheService.Delete(ctx, seatMapCacheKey(tripID.String()))
}

func seatMapCacheKey(tripID string) string {
	return "busline:seatmap:" + tripID
}
