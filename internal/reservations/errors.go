package reservations

import "errors"

var (
	ErrReservationNotFound = errors.New("reservation not found")
	ErrSeatUnavailable     = errors.New("seat is not available")
	ErrSeatNotOnTrip       = errors.New("seat does not belong to trip")
	ErrSeatCountMismatch   = errors.New("passenger count does not match reserved seats")
	ErrSelectionTooLarge   = errors.New("too many seats for one reservation")
	ErrNotPending          = errors.New("reservation is not pending")
	ErrNotConfirmed        = errors.New("reservation is not confirmed")
	ErrCancelled           = errors.New("reservation is cancelled")
	ErrPNRExhausted        = errors.New("could not generate a unique pnr")
)
