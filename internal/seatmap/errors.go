package seatmap

import "errors"

var (
	// ErrUnsupportedLayout is returned for layout types other than "2+1" and "2+2".
	// It is fatal at schema-creation time and never retried.
	ErrUnsupportedLayout = errors.New("unsupported seat layout type")

	// ErrSeatConflict is returned when an atomic batch claim finds at least one
	// seat already claimed by another reservation. The whole batch is rolled back.
	ErrSeatConflict = errors.New("seat already claimed by another reservation")

	// ErrSeatNotFound is returned when a referenced seat does not exist.
	ErrSeatNotFound = errors.New("seat not found")

	// ErrSchemaNotFound is returned when a trip has no seat schema.
	ErrSchemaNotFound = errors.New("seat schema not found")
)
