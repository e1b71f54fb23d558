package selection

import (
	"sync"
	"time"
)

// Registry keeps one Selection per (session, trip) with last-touch expiry.
// State here is deliberately volatile: an expired or restarted process just
// means the user re-picks their seats.
type Registry struct {
	mu       sync.Mutex
	entries  map[string]*entry
	ttl      time.Duration
	maxSeats int
	now      func() time.Time
}

type entry struct {
	selection *Selection
	touchedAt time.Time
}

// NewRegistry creates a selection registry. ttl <= 0 disables expiry.
func NewRegistry(ttl time.Duration, maxSeats int) *Registry {
	return &Registry{
		entries:  make(map[string]*entry),
		ttl:      ttl,
		maxSeats: maxSeats,
		now:      time.Now,
	}
}

// Get returns the live selection for the session/trip pair, creating a fresh
// one when absent or expired. A stale selection for a different trip of the
// same session is replaced, mirroring the UI discarding state on trip change.
func (r *Registry) Get(sessionID, tripID string, unitPrice float64) *Selection {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := sessionID
	e, ok := r.entries[key]
	if ok && !r.expired(e) && e.selection.TripID() == tripID {
		e.touchedAt = r.now()
		return e.selection
	}

	sel := New(tripID, unitPrice, r.maxSeats)
	r.entries[key] = &entry{selection: sel, touchedAt: r.now()}
	return sel
}

// Peek returns the selection without creating one. The second return is
// false when no live selection exists for the session.
func (r *Registry) Peek(sessionID string) (*Selection, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[sessionID]
	if !ok || r.expired(e) {
		return nil, false
	}
	e.touchedAt = r.now()
	return e.selection, true
}

// Drop removes the session's selection.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, sessionID)
}

// Sweep evicts every expired selection and returns how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for key, e := range r.entries {
		if r.expired(e) {
			delete(r.entries, key)
			removed++
		}
	}
	return removed
}

func (r *Registry) expired(e *entry) bool {
	if r.ttl <= 0 {
		return false
	}
	return r.now().Sub(e.touchedAt) > r.ttl
}
