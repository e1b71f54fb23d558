package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds database constraints that back the concurrency
// guarantees of the booking flow.
func MigrateConstraints(db *gorm.DB) error {
	// A seat flips to taken exactly once; the unique index on confirmed
	// PNRs makes duplicate ticket codes impossible at the storage layer.
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS unique_confirmed_pnr
		ON reservations (pnr)
		WHERE status = 'confirmed';
	`).Error
	if err != nil {
		return err
	}

	// Occupancy lookups when rendering seat maps.
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_seats_trip_status
		ON seats (trip_id, status);
	`).Error
	if err != nil {
		return err
	}

	// PNR retrieval is a hot path for ticket lookup.
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_reservations_status_pnr
		ON reservations (status, pnr);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
