package database

import (
	"busline/internal/agencies"
	"busline/internal/payments"
	"busline/internal/reservations"
	"busline/internal/seatmap"
	"busline/internal/trips"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&agencies.Agency{},
		&agencies.Company{},
		&trips.Trip{},
		&seatmap.SeatSchema{},
		&seatmap.Seat{},
		&reservations.Reservation{},
		&reservations.Passenger{},
		&payments.Payment{},
	)
}
