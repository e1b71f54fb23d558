package trips

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrTripNotFound = errors.New("trip not found")

type Repository interface {
	Create(ctx context.Context, trip *Trip) error
	GetByID(ctx context.Context, id uuid.UUID) (*Trip, error)
	Search(ctx context.Context, query SearchQuery) ([]Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// TRIP CRUD

func (r *repository) Create(ctx context.Context, trip *Trip) error {
	if err := r.db.WithContext(ctx).Create(trip).Error; err != nil {
		return fmt.Errorf("failed to create trip: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Trip, error) {
	var trip Trip
	err := r.db.WithContext(ctx).
		Preload("FromAgency").
		Preload("ToAgency").
		Preload("Company").
		Preload("SeatSchema").
		Where("id = ?", id).
		First(&trip).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	return &trip, nil
}

// Search returns future trips matching the query, relations preloaded.
func (r *repository) Search(ctx context.Context, query SearchQuery) ([]Trip, error) {
	db := r.db.WithContext(ctx).
		Preload("FromAgency").
		Preload("ToAgency").
		Preload("Company").
		Preload("SeatSchema.Seats").
		Where("departure > ?", time.Now())

	if query.From != "" {
		db = db.Where("from_agency_id = ?", query.From)
	}
	if query.To != "" {
		db = db.Where("to_agency_id = ?", query.To)
	}
	if query.Date != "" {
		day, err := time.Parse("2006-01-02", query.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date filter: %w", err)
		}
		db = db.Where("departure >= ? AND departure < ?", day, day.AddDate(0, 0, 1))
	}

	switch query.Sort {
	case "price":
		db = db.Order("price ASC")
	default:
		db = db.Order("departure ASC")
	}

	var found []Trip
	if err := db.Find(&found).Error; err != nil {
		return nil, fmt.Errorf("failed to search trips: %w", err)
	}
	return found, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Trip{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete trip: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTripNotFound
	}
	return nil
}
