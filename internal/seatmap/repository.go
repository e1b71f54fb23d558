package seatmap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Repository interface {
	// Schema operations
	CreateSchemaWithSeats(ctx context.Context, schema *SeatSchema, seats []Seat) error
	GetSchemaByTripID(ctx context.Context, tripID uuid.UUID) (*SeatSchema, error)

	// Seat lookups
	GetSeatByID(ctx context.Context, id uuid.UUID) (*Seat, error)
	GetSeatsByIDs(ctx context.Context, seatIDs []uuid.UUID) ([]Seat, error)
	GetSeatsByTripID(ctx context.Context, tripID uuid.UUID) ([]Seat, error)

	// Status mutations
	MarkSeatsTaken(ctx context.Context, seatIDs []uuid.UUID) error
	MarkSeatsTakenTx(tx *gorm.DB, seatIDs []uuid.UUID) error

	// Redis claim operations
	ClaimSeats(ctx context.Context, tripID, reservationID uuid.UUID, seatIDs []uuid.UUID) error
	ReleaseSeats(ctx context.Context, tripID, reservationID uuid.UUID, seatIDs []uuid.UUID) (int, error)
}

type repository struct {
	db     *gorm.DB
	claims *AtomicClaimOperations
}

func NewRepository(db *gorm.DB, redisClient *redis.Client) Repository {
	return &repository{
		db:     db,
		claims: NewAtomicClaimOperations(redisClient),
	}
}

// SCHEMA OPERATIONS

// CreateSchemaWithSeats inserts the schema and its seats in one transaction.
// A failure must not leave a partially-built schema behind.
func (r *repository) CreateSchemaWithSeats(ctx context.Context, schema *SeatSchema, seats []Seat) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(schema).Error; err != nil {
			return fmt.Errorf("failed to create seat schema: %w", err)
		}
		if len(seats) == 0 {
			return nil
		}
		for i := range seats {
			seats[i].SchemaID = schema.ID
			seats[i].TripID = schema.TripID
		}
		if err := tx.Create(&seats).Error; err != nil {
			return fmt.Errorf("failed to create seats: %w", err)
		}
		return nil
	})
}

func (r *repository) GetSchemaByTripID(ctx context.Context, tripID uuid.UUID) (*SeatSchema, error) {
	var schema SeatSchema
	err := r.db.WithContext(ctx).
		Preload("Seats", func(db *gorm.DB) *gorm.DB {
			return db.Order("seat_no ASC")
		}).
		First(&schema, "trip_id = ?", tripID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSchemaNotFound
		}
		return nil, err
	}
	return &schema, nil
}

// SEAT LOOKUPS

func (r *repository) GetSeatByID(ctx context.Context, id uuid.UUID) (*Seat, error) {
	var seat Seat
	err := r.db.WithContext(ctx).First(&seat, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return &seat, nil
}

func (r *repository) GetSeatsByIDs(ctx context.Context, seatIDs []uuid.UUID) ([]Seat, error) {
	var seats []Seat
	err := r.db.WithContext(ctx).
		Where("id IN ?", seatIDs).
		Order("seat_no ASC").
		Find(&seats).Error
	return seats, err
}

func (r *repository) GetSeatsByTripID(ctx context.Context, tripID uuid.UUID) ([]Seat, error) {
	var seats []Seat
	err := r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Order("seat_no ASC").
		Find(&seats).Error
	return seats, err
}

// STATUS MUTATIONS

// MarkSeatsTaken flips the batch to taken. Marking an already-taken seat is
// a no-op, so the operation is idempotent per seat.
func (r *repository) MarkSeatsTaken(ctx context.Context, seatIDs []uuid.UUID) error {
	return r.MarkSeatsTakenTx(r.db.WithContext(ctx), seatIDs)
}

// MarkSeatsTakenTx is the same mutation inside a caller-owned transaction,
// so the reservation confirmation can commit seats and status together.
func (r *repository) MarkSeatsTakenTx(tx *gorm.DB, seatIDs []uuid.UUID) error {
	return tx.Model(&Seat{}).
		Where("id IN ?", seatIDs).
		Updates(map[string]interface{}{
			"status":     SeatStatusTaken,
			"updated_at": time.Now().UTC(),
		}).Error
}

// REDIS CLAIMS

func (r *repository) ClaimSeats(ctx context.Context, tripID, reservationID uuid.UUID, seatIDs []uuid.UUID) error {
	return r.claims.ClaimSeats(ctx, tripID, reservationID, seatIDs)
}

func (r *repository) ReleaseSeats(ctx context.Context, tripID, reservationID uuid.UUID, seatIDs []uuid.UUID) (int, error) {
	return r.claims.ReleaseSeats(ctx, tripID, reservationID, seatIDs)
}
