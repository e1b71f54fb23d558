package seatmap

import (
	"time"

	"github.com/google/uuid"
)

// Seat occupancy status values
const (
	SeatStatusEmpty = "empty"
	SeatStatusTaken = "taken"
)

// SeatSchema describes the geometry of one trip's bus. One schema per trip,
// created together with its seats and immutable afterwards.
//
// Historical field note: Rows stores the count of physical bus columns (13)
// and Cols stores the seats-per-column (4 or 5). The wire format of the
// original system had them inverted and every consumer depends on it.
type SeatSchema struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TripID     uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"trip_id"`
	LayoutType string    `gorm:"type:varchar(8);not null" json:"layout_type"`
	Rows       int       `gorm:"not null" json:"rows"`
	Cols       int       `gorm:"not null" json:"cols"`
	Cells      string    `gorm:"type:text;not null" json:"cells"`
	UnitPrice  float64   `gorm:"not null" json:"unit_price"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relationships
	Seats []Seat `json:"seats,omitempty" gorm:"foreignKey:SchemaID;constraint:OnDelete:CASCADE;"`
}

// Seat is one bookable position of a schema. Status flips from empty to
// taken exactly once, during reservation confirmation.
type Seat struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TripID    uuid.UUID `gorm:"type:uuid;index;not null" json:"trip_id"`
	SchemaID  uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_schema_position" json:"schema_id"`
	SeatNo    int       `gorm:"not null" json:"seat_no"`
	Row       int       `gorm:"not null;uniqueIndex:idx_schema_position" json:"row"`
	Col       int       `gorm:"not null;uniqueIndex:idx_schema_position" json:"col"`
	Status    string    `gorm:"type:varchar(10);check:status IN ('empty', 'taken');default:'empty'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Schema *SeatSchema `json:"schema,omitempty" gorm:"foreignKey:SchemaID;constraint:OnDelete:CASCADE;"`
}

// TableName sets the table name for SeatSchema
func (SeatSchema) TableName() string {
	return "seat_schemas"
}

// TableName sets the table name for Seat
func (Seat) TableName() string {
	return "seats"
}

// IsAvailable reports whether the seat can still be selected.
func (s *Seat) IsAvailable() bool {
	return s.Status == SeatStatusEmpty
}

// SeatResponse is the API shape of one seat.
type SeatResponse struct {
	ID     string `json:"id"`
	SeatNo int    `json:"seat_no"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Status string `json:"status"`
}

// SeatMapResponse is the full seat map of one trip: geometry plus live
// occupancy, the payload the seat-picker UI renders.
type SeatMapResponse struct {
	TripID     string         `json:"trip_id"`
	LayoutType string         `json:"layout_type"`
	Rows       int            `json:"rows"`
	Cols       int            `json:"cols"`
	Grid       [][]CellKind   `json:"grid"`
	UnitPrice  float64        `json:"unit_price"`
	Seats      []SeatResponse `json:"seats"`
}

// SeatAvailabilityRequest asks for the live status of specific seats.
type SeatAvailabilityRequest struct {
	SeatIDs []string `json:"seat_ids" binding:"required,min=1,dive,uuid"`
}

// SeatAvailabilityInfo is the live status of one requested seat.
type SeatAvailabilityInfo struct {
	SeatID    string `json:"seat_id"`
	SeatNo    int    `json:"seat_no"`
	Available bool   `json:"available"`
	Status    string `json:"status"`
}

func (s *Seat) ToResponse() SeatResponse {
	return SeatResponse{
		ID:     s.ID.String(),
		SeatNo: s.SeatNo,
		Row:    s.Row,
		Col:    s.Col,
		Status: s.Status,
	}
}
