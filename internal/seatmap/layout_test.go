package seatmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLayoutTwoPlusOne(t *testing.T) {
	layout, err := BuildLayout(LayoutTwoPlusOne)
	require.NoError(t, err)

	assert.Equal(t, 13, layout.PhysicalColumns)
	assert.Equal(t, 4, layout.SeatsPerColumn)
	require.Len(t, layout.Grid, 13)
	for col, column := range layout.Grid {
		require.Len(t, column, 4, "column %d", col)
	}

	// Corridor runs through every column at the same position.
	for col := 0; col < 13; col++ {
		assert.Equal(t, CellCorridor, layout.Grid[col][2], "column %d", col)
	}

	// The middle door replaces the first two cells of column 6.
	assert.Equal(t, CellDoor, layout.Grid[6][0])
	assert.Equal(t, CellDoor, layout.Grid[6][1])
	assert.Equal(t, CellSeat, layout.Grid[6][3])

	// 12 regular columns with 3 seats each, door column with 1.
	assert.Equal(t, 37, layout.SeatCount())
}

func TestBuildLayoutTwoPlusTwo(t *testing.T) {
	layout, err := BuildLayout(LayoutTwoPlusTwo)
	require.NoError(t, err)

	assert.Equal(t, 13, layout.PhysicalColumns)
	assert.Equal(t, 5, layout.SeatsPerColumn)

	// 12 regular columns with 4 seats each, door column with 2.
	assert.Equal(t, 50, layout.SeatCount())
}

func TestBuildLayoutUnsupported(t *testing.T) {
	for _, layoutType := range []string{"", "3+2", "2x2", "2+1 "} {
		_, err := BuildLayout(layoutType)
		assert.ErrorIs(t, err, ErrUnsupportedLayout, "layout %q", layoutType)
	}
}

func TestNumberSeatsContiguous(t *testing.T) {
	layout, err := BuildLayout(LayoutTwoPlusOne)
	require.NoError(t, err)

	seats := NumberSeats(layout)
	require.Len(t, seats, 37)

	for i, seat := range seats {
		assert.Equal(t, i+1, seat.SeatNo)
	}
}

func TestNumberSeatsColumnMajor(t *testing.T) {
	layout, err := BuildLayout(LayoutTwoPlusOne)
	require.NoError(t, err)

	seats := NumberSeats(layout)

	// First column: cells 0, 1 and 3 are seats, cell 2 is the corridor.
	assert.Equal(t, SeatPosition{SeatNo: 1, Row: 1, Col: 1}, seats[0])
	assert.Equal(t, SeatPosition{SeatNo: 2, Row: 2, Col: 1}, seats[1])
	assert.Equal(t, SeatPosition{SeatNo: 3, Row: 4, Col: 1}, seats[2])

	// Second column continues the numbering.
	assert.Equal(t, SeatPosition{SeatNo: 4, Row: 1, Col: 2}, seats[3])

	// Door and corridor cells never consume a number: the door column
	// (col 7, 1-based) contributes exactly one seat.
	doorColSeats := 0
	for _, seat := range seats {
		if seat.Col == 7 {
			doorColSeats++
		}
	}
	assert.Equal(t, 1, doorColSeats)
}

func TestGridPersistenceRoundTrip(t *testing.T) {
	layout, err := BuildLayout(LayoutTwoPlusTwo)
	require.NoError(t, err)

	cells, err := layout.MarshalGrid()
	require.NoError(t, err)

	grid, err := ParseGrid(cells)
	require.NoError(t, err)
	assert.Equal(t, layout.Grid, grid)
}

func TestParseGridRejectsGarbage(t *testing.T) {
	_, err := ParseGrid("not json")
	assert.Error(t, err)
}
