package selection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleAddAndRemove(t *testing.T) {
	sel := New("trip-1", 500, 4)

	selected, err := sel.Toggle("seat-3", false)
	require.NoError(t, err)
	assert.True(t, selected)
	assert.True(t, sel.Contains("seat-3"))
	assert.Equal(t, 1, sel.Count())

	selected, err = sel.Toggle("seat-3", false)
	require.NoError(t, err)
	assert.False(t, selected)
	assert.False(t, sel.Contains("seat-3"))
	assert.Equal(t, 0, sel.Count())
}

func TestToggleTakenSeatRejected(t *testing.T) {
	sel := New("trip-1", 500, 4)

	_, err := sel.Toggle("seat-9", true)
	assert.ErrorIs(t, err, ErrSeatTaken)
	assert.Equal(t, 0, sel.Count())
}

func TestToggleLimitLeavesSelectionUnchanged(t *testing.T) {
	sel := New("trip-1", 500, 4)

	for _, id := range []string{"a", "b", "c", "d"} {
		_, err := sel.Toggle(id, false)
		require.NoError(t, err)
	}

	_, err := sel.Toggle("e", false)
	assert.ErrorIs(t, err, ErrSelectionLimit)
	assert.Equal(t, 4, sel.Count())
	assert.Equal(t, []string{"a", "b", "c", "d"}, sel.Seats())

	// Removing at the cap still works.
	selected, err := sel.Toggle("b", false)
	require.NoError(t, err)
	assert.False(t, selected)
	assert.Equal(t, []string{"a", "c", "d"}, sel.Seats())

	// And frees a slot for a new seat.
	selected, err = sel.Toggle("e", false)
	require.NoError(t, err)
	assert.True(t, selected)
	assert.Equal(t, []string{"a", "c", "d", "e"}, sel.Seats())
}

func TestTotalFollowsToggles(t *testing.T) {
	sel := New("trip-1", 500, 4)

	sel.Toggle("3", false)
	sel.Toggle("7", false)
	assert.Equal(t, 1000.0, sel.Total())

	sel.Toggle("7", false)
	assert.Equal(t, 500.0, sel.Total())

	sel.Toggle("7", false)
	assert.Equal(t, 1000.0, sel.Total())
}

func TestDefaultMaxSeatsFallback(t *testing.T) {
	sel := New("trip-1", 100, 0)

	for i := 0; i < DefaultMaxSeats; i++ {
		_, err := sel.Toggle(string(rune('a'+i)), false)
		require.NoError(t, err)
	}
	_, err := sel.Toggle("z", false)
	assert.ErrorIs(t, err, ErrSelectionLimit)
}

func TestRegistryTripChangeResets(t *testing.T) {
	reg := NewRegistry(30*time.Minute, 4)

	sel := reg.Get("session-1", "trip-1", 500)
	sel.Toggle("seat-1", false)
	require.Equal(t, 1, sel.Count())

	// Same trip returns the same live selection.
	again := reg.Get("session-1", "trip-1", 500)
	assert.Equal(t, 1, again.Count())

	// A different trip discards it.
	fresh := reg.Get("session-1", "trip-2", 700)
	assert.Equal(t, 0, fresh.Count())
	assert.Equal(t, "trip-2", fresh.TripID())
}

func TestRegistryExpiry(t *testing.T) {
	reg := NewRegistry(30*time.Minute, 4)
	current := time.Now()
	reg.now = func() time.Time { return current }

	sel := reg.Get("session-1", "trip-1", 500)
	sel.Toggle("seat-1", false)

	current = current.Add(31 * time.Minute)

	_, ok := reg.Peek("session-1")
	assert.False(t, ok)

	fresh := reg.Get("session-1", "trip-1", 500)
	assert.Equal(t, 0, fresh.Count())
}

func TestRegistrySweep(t *testing.T) {
	reg := NewRegistry(time.Minute, 4)
	current := time.Now()
	reg.now = func() time.Time { return current }

	reg.Get("s1", "trip-1", 500)
	reg.Get("s2", "trip-1", 500)

	current = current.Add(2 * time.Minute)
	assert.Equal(t, 2, reg.Sweep())

	_, ok := reg.Peek("s1")
	assert.False(t, ok)
}

func TestRegistryDrop(t *testing.T) {
	reg := NewRegistry(0, 4)

	reg.Get("s1", "trip-1", 500)
	reg.Drop("s1")

	_, ok := reg.Peek("s1")
	assert.False(t, ok)
}
