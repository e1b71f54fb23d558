package trips

import (
	"time"

	"busline/internal/agencies"
	"busline/internal/seatmap"

	"github.com/google/uuid"
)

// Trip is one scheduled journey between two agencies. Immutable after
// creation except through administrative edits.
type Trip struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Departure    time.Time `gorm:"index;not null" json:"departure"`
	Arrival      time.Time `gorm:"not null" json:"arrival"`
	Price        float64   `gorm:"not null" json:"price"`
	FromAgencyID uuid.UUID `gorm:"type:uuid;index;not null" json:"from_agency_id"`
	ToAgencyID   uuid.UUID `gorm:"type:uuid;index;not null" json:"to_agency_id"`
	CompanyID    uuid.UUID `gorm:"type:uuid;not null" json:"company_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relationships
	FromAgency *agencies.Agency    `json:"from_agency,omitempty" gorm:"foreignKey:FromAgencyID"`
	ToAgency   *agencies.Agency    `json:"to_agency,omitempty" gorm:"foreignKey:ToAgencyID"`
	Company    *agencies.Company   `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
	SeatSchema *seatmap.SeatSchema `json:"seat_schema,omitempty" gorm:"foreignKey:TripID"`
}

// TableName sets the table name for Trip
func (Trip) TableName() string {
	return "trips"
}

// CreateTripRequest creates a trip together with its seat schema
type CreateTripRequest struct {
	Departure    time.Time `json:"departure" binding:"required"`
	Arrival      time.Time `json:"arrival" binding:"required,gtfield=Departure"`
	Price        float64   `json:"price" binding:"required,gt=0"`
	FromAgencyID string    `json:"from_agency_id" binding:"required,uuid"`
	ToAgencyID   string    `json:"to_agency_id" binding:"required,uuid,nefield=FromAgencyID"`
	CompanyID    string    `json:"company_id" binding:"required,uuid"`
	LayoutType   string    `json:"layout_type" binding:"required,layouttype"`
	UnitPrice    float64   `json:"unit_price" binding:"omitempty,gt=0"`
}

// SearchQuery filters the public trip search
type SearchQuery struct {
	From string `form:"from" binding:"omitempty,uuid"`
	To   string `form:"to" binding:"omitempty,uuid"`
	Date string `form:"date" binding:"omitempty,datetime=2006-01-02"`
	Sort string `form:"sort" binding:"omitempty,oneof=departure price"`
}

// TripResponse is the API shape of one trip with expanded relations
type TripResponse struct {
	ID         string            `json:"id"`
	Departure  time.Time         `json:"departure"`
	Arrival    time.Time         `json:"arrival"`
	Price      float64           `json:"price"`
	FromAgency *agencies.Agency  `json:"from_agency,omitempty"`
	ToAgency   *agencies.Agency  `json:"to_agency,omitempty"`
	Company    *agencies.Company `json:"company,omitempty"`
	LayoutType string            `json:"layout_type,omitempty"`
	SeatCount  int               `json:"seat_count,omitempty"`
}

// ToResponse flattens a trip with its loaded relations
func (t *Trip) ToResponse() TripResponse {
	resp := TripResponse{
		ID:         t.ID.String(),
		Departure:  t.Departure,
		Arrival:    t.Arrival,
		Price:      t.Price,
		FromAgency: t.FromAgency,
		ToAgency:   t.ToAgency,
		Company:    t.Company,
	}
	if t.SeatSchema != nil {
		resp.LayoutType = t.SeatSchema.LayoutType
		resp.SeatCount = len(t.SeatSchema.Seats)
	}
	return resp
}
