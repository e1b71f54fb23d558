package seatmap

import (
	"encoding/json"
	"fmt"
)

// CellKind classifies one position of the bus grid.
type CellKind string

const (
	CellSeat     CellKind = "seat"
	CellCorridor CellKind = "corridor"
	CellDoor     CellKind = "door"
)

// Supported layout types. The layout type determines how many cells each
// physical column of the bus has: 4 for "2+1", 5 for "2+2".
const (
	LayoutTwoPlusOne = "2+1"
	LayoutTwoPlusTwo = "2+2"
)

const (
	// physicalColumns is the fixed number of bus columns for both layouts.
	physicalColumns = 13
	// corridorRow runs through every column (0-based cell index).
	corridorRow = 2
	// doorColumn has its first two cells replaced by the middle door.
	doorColumn = 6
)

// Layout is the generated seat grid for one bus. Grid is column-major:
// Grid[col][row]. The persisted schema stores PhysicalColumns in its "rows"
// field and SeatsPerColumn in its "cols" field; that historical inversion is
// kept at the persistence edge only, never in these names.
type Layout struct {
	Type            string       `json:"layout_type"`
	Grid            [][]CellKind `json:"grid"`
	PhysicalColumns int          `json:"physical_columns"`
	SeatsPerColumn  int          `json:"seats_per_column"`
}

// SeatPosition is one numbered bookable position derived from a layout.
// Row and Col are 1-based grid coordinates.
type SeatPosition struct {
	SeatNo int `json:"seat_no"`
	Row    int `json:"row"`
	Col    int `json:"col"`
}

// BuildLayout generates the grid for a supported layout type.
func BuildLayout(layoutType string) (*Layout, error) {
	var seatsPerColumn int
	switch layoutType {
	case LayoutTwoPlusOne:
		seatsPerColumn = 4
	case LayoutTwoPlusTwo:
		seatsPerColumn = 5
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLayout, layoutType)
	}

	grid := make([][]CellKind, physicalColumns)
	for col := 0; col < physicalColumns; col++ {
		column := make([]CellKind, seatsPerColumn)
		isDoorColumn := col == doorColumn

		for row := 0; row < seatsPerColumn; row++ {
			switch {
			case row == corridorRow:
				column[row] = CellCorridor
			case isDoorColumn && (row == 0 || row == 1):
				column[row] = CellDoor
			default:
				column[row] = CellSeat
			}
		}
		grid[col] = column
	}

	return &Layout{
		Type:            layoutType,
		Grid:            grid,
		PhysicalColumns: physicalColumns,
		SeatsPerColumn:  seatsPerColumn,
	}, nil
}

// NumberSeats walks the grid column by column, top to bottom, and assigns a
// sequential 1-based number to every seat cell. Corridor and door cells
// consume no number. A grid without seat cells yields an empty slice.
func NumberSeats(layout *Layout) []SeatPosition {
	seats := make([]SeatPosition, 0, layout.PhysicalColumns*layout.SeatsPerColumn)
	seatNo := 1

	for col := 0; col < len(layout.Grid); col++ {
		column := layout.Grid[col]
		for row := 0; row < len(column); row++ {
			if column[row] != CellSeat {
				continue
			}
			seats = append(seats, SeatPosition{
				SeatNo: seatNo,
				Row:    row + 1,
				Col:    col + 1,
			})
			seatNo++
		}
	}

	return seats
}

// SeatCount returns the number of seat cells in the grid.
func (l *Layout) SeatCount() int {
	count := 0
	for _, column := range l.Grid {
		for _, cell := range column {
			if cell == CellSeat {
				count++
			}
		}
	}
	return count
}

// MarshalGrid serializes the grid as a JSON array-of-arrays of cell kinds,
// the format stored on the seat schema record.
func (l *Layout) MarshalGrid() (string, error) {
	data, err := json.Marshal(l.Grid)
	if err != nil {
		return "", fmt.Errorf("failed to marshal seat grid: %w", err)
	}
	return string(data), nil
}

// ParseGrid restores a grid from its persisted JSON form.
func ParseGrid(cells string) ([][]CellKind, error) {
	var grid [][]CellKind
	if err := json.Unmarshal([]byte(cells), &grid); err != nil {
		return nil, fmt.Errorf("failed to parse seat grid: %w", err)
	}
	return grid, nil
}
