package selection

import "errors"

var (
	// ErrSelectionLimit signals that the cap was reached. The selection is
	// left untouched; callers surface a warning instead of failing the flow.
	ErrSelectionLimit = errors.New("seat selection limit reached")

	// ErrSeatTaken rejects toggling a seat that is already occupied,
	// regardless of how many seats are selected.
	ErrSeatTaken = errors.New("seat is already taken")
)

// DefaultMaxSeats caps how many seats one passenger group can pick at once.
const DefaultMaxSeats = 4

// Selection is the transient in-progress seat choice for one trip. It lives
// entirely in memory for the lifetime of one browsing session and is never
// persisted; collapsing the seat map simply discards it.
type Selection struct {
	tripID    string
	unitPrice float64
	maxSeats  int
	seats     []string // insertion order preserved
	index     map[string]int
}

// New creates an empty selection for a trip. maxSeats <= 0 falls back to
// DefaultMaxSeats.
func New(tripID string, unitPrice float64, maxSeats int) *Selection {
	if maxSeats <= 0 {
		maxSeats = DefaultMaxSeats
	}
	return &Selection{
		tripID:    tripID,
		unitPrice: unitPrice,
		maxSeats:  maxSeats,
		seats:     make([]string, 0, maxSeats),
		index:     make(map[string]int, maxSeats),
	}
}

// Toggle adds or removes a seat. seatTaken is the seat's live occupancy
// status at toggle time. Removing is always allowed; adding fails with
// ErrSeatTaken for occupied seats and ErrSelectionLimit at the cap, leaving
// the selection unchanged in both cases. Returns true if the seat ended up
// selected.
func (s *Selection) Toggle(seatID string, seatTaken bool) (bool, error) {
	if pos, ok := s.index[seatID]; ok {
		// Shrinking is always free
		s.seats = append(s.seats[:pos], s.seats[pos+1:]...)
		delete(s.index, seatID)
		for i := pos; i < len(s.seats); i++ {
			s.index[s.seats[i]] = i
		}
		return false, nil
	}

	if seatTaken {
		return false, ErrSeatTaken
	}

	if len(s.seats) >= s.maxSeats {
		return false, ErrSelectionLimit
	}

	s.index[seatID] = len(s.seats)
	s.seats = append(s.seats, seatID)
	return true, nil
}

// Seats returns the selected seat IDs in the order they were picked.
func (s *Selection) Seats() []string {
	out := make([]string, len(s.seats))
	copy(out, s.seats)
	return out
}

// Contains reports whether the seat is currently selected.
func (s *Selection) Contains(seatID string) bool {
	_, ok := s.index[seatID]
	return ok
}

// Count returns the number of selected seats.
func (s *Selection) Count() int {
	return len(s.seats)
}

// Total returns the running price: seat count times the trip's unit price.
func (s *Selection) Total() float64 {
	return float64(len(s.seats)) * s.unitPrice
}

// TripID returns the trip this selection belongs to.
func (s *Selection) TripID() string {
	return s.tripID
}

// Clear empties the selection, used when the trip or schema changes.
func (s *Selection) Clear() {
	s.seats = s.seats[:0]
	s.index = make(map[string]int, s.maxSeats)
}
