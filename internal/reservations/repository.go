package reservations

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, reservation *Reservation, passengers []Passenger) error
	GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error)
	GetByPNR(ctx context.Context, pnr string) (*Reservation, error)
	ListBySession(ctx context.Context, sessionID string) ([]Reservation, error)
	UpdatePassengers(ctx context.Context, reservationID uuid.UUID, passengers []Passenger, contactName, contactMail string) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	PNRExists(ctx context.Context, pnr string) (bool, error)
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	ConfirmTx(tx *gorm.DB, reservation *Reservation) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// RESERVATION CRUD

func (r *repository) Create(ctx context.Context, reservation *Reservation, passengers []Passenger) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(reservation).Error; err != nil {
			return fmt.Errorf("failed to create reservation: %w", err)
		}
		for i := range passengers {
			passengers[i].ReservationID = reservation.ID
		}
		if len(passengers) > 0 {
			if err := tx.Create(&passengers).Error; err != nil {
				return fmt.Errorf("failed to create passengers: %w", err)
			}
		}
		reservation.Passengers = passengers
		return nil
	})
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	var reservation Reservation
	err := r.db.WithContext(ctx).
		Preload("Passengers").
		Preload("Passengers.Seat").
		Where("id = ?", id).
		First(&reservation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	return &reservation, nil
}

func (r *repository) GetByPNR(ctx context.Context, pnr string) (*Reservation, error) {
	var reservation Reservation
	err := r.db.WithContext(ctx).
		Preload("Passengers").
		Preload("Passengers.Seat").
		Where("pnr = ?", pnr).
		First(&reservation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to get reservation by pnr: %w", err)
	}
	return &reservation, nil
}

func (r *repository) ListBySession(ctx context.Context, sessionID string) ([]Reservation, error) {
	var found []Reservation
	err := r.db.WithContext(ctx).
		Preload("Passengers").
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&found).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return found, nil
}

// UpdatePassengers replaces the passenger rows of a pending reservation.
func (r *repository) UpdatePassengers(ctx context.Context, reservationID uuid.UUID, passengers []Passenger, contactName, contactMail string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("reservation_id = ?", reservationID).Delete(&Passenger{}).Error; err != nil {
			return fmt.Errorf("failed to clear passengers: %w", err)
		}
		for i := range passengers {
			passengers[i].ReservationID = reservationID
		}
		if err := tx.Create(&passengers).Error; err != nil {
			return fmt.Errorf("failed to save passengers: %w", err)
		}

		updates := map[string]interface{}{}
		if contactName != "" {
			updates["contact_name"] = contactName
		}
		if contactMail != "" {
			updates["contact_mail"] = contactMail
		}
		if len(updates) > 0 {
			if err := tx.Model(&Reservation{}).Where("id = ?", reservationID).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update contact: %w", err)
			}
		}
		return nil
	})
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	result := r.db.WithContext(ctx).Model(&Reservation{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update reservation status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrReservationNotFound
	}
	return nil
}

func (r *repository) PNRExists(ctx context.Context, pnr string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Reservation{}).Where("pnr = ?", pnr).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check pnr: %w", err)
	}
	return count > 0, nil
}

func (r *repository) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// ConfirmTx writes the confirmed status, PNR and timestamp inside an open
// transaction. The update only matches a pending row; if another confirm won
// the race in between, zero rows match and ErrNotPending comes back so the
// caller can return the stored ticket instead of a PNR that was never saved.
func (r *repository) ConfirmTx(tx *gorm.DB, reservation *Reservation) error {
	result := tx.Model(&Reservation{}).
		Where("id = ? AND status = ?", reservation.ID, StatusPending).
		Updates(map[string]interface{}{
			"status":       StatusConfirmed,
			"pnr":          reservation.PNR,
			"confirmed_at": reservation.ConfirmedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to confirm reservation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotPending
	}
	return nil
}
