package reservations

import (
	"time"

	"busline/internal/seatmap"

	"github.com/google/uuid"
)

// Reservation status values
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Reservation is one booking attempt for a set of seats on a trip. It is
// created pending, collects passenger details, and is confirmed exactly once
// after payment. PNR is assigned at confirmation and never changes.
type Reservation struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TripID      uuid.UUID `gorm:"type:uuid;index;not null" json:"trip_id"`
	SessionID   string    `gorm:"type:varchar(64);index" json:"session_id"`
	Status      string    `gorm:"type:varchar(16);not null;default:'pending';check:status IN ('pending', 'confirmed', 'cancelled')" json:"status"`
	TotalAmount float64   `gorm:"not null" json:"total_amount"`
	Currency    string    `gorm:"type:varchar(3);not null" json:"currency"`
	PNR         string    `gorm:"type:varchar(12);uniqueIndex:idx_reservations_pnr,where:pnr <> ''" json:"pnr,omitempty"`
	ContactName string    `gorm:"type:varchar(120)" json:"contact_name"`
	ContactMail string    `gorm:"type:varchar(255)" json:"contact_mail"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	Passengers []Passenger `json:"passengers,omitempty" gorm:"foreignKey:ReservationID;constraint:OnDelete:CASCADE;"`
}

// Passenger ties one traveller to one reserved seat. Each seat of a
// reservation carries exactly one passenger.
type Passenger struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ReservationID uuid.UUID `gorm:"type:uuid;index;not null" json:"reservation_id"`
	SeatID        uuid.UUID `gorm:"type:uuid;index;not null" json:"seat_id"`
	FirstName     string    `gorm:"type:varchar(80)" json:"first_name"`
	LastName      string    `gorm:"type:varchar(80)" json:"last_name"`
	NationalID    string    `gorm:"type:varchar(20)" json:"national_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relationships
	Seat *seatmap.Seat `json:"seat,omitempty" gorm:"foreignKey:SeatID"`
}

// TableName sets the table name for Reservation
func (Reservation) TableName() string {
	return "reservations"
}

// TableName sets the table name for Passenger
func (Passenger) TableName() string {
	return "passengers"
}

// IsConfirmed reports whether the reservation already went through
// confirmation.
func (r *Reservation) IsConfirmed() bool {
	return r.Status == StatusConfirmed
}

// SeatIDs collects the seat of every passenger, in passenger order.
func (r *Reservation) SeatIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.Passengers))
	for i := range r.Passengers {
		ids = append(ids, r.Passengers[i].SeatID)
	}
	return ids
}

// CreateReservationRequest opens a pending reservation for selected seats
type CreateReservationRequest struct {
	TripID      string   `json:"trip_id" binding:"required,uuid"`
	SeatIDs     []string `json:"seat_ids" binding:"required,min=1,dive,uuid"`
	ContactName string   `json:"contact_name" binding:"omitempty,max=120"`
	ContactMail string   `json:"contact_mail" binding:"omitempty,email"`
}

// PassengerInput is one traveller in an AttachPassengers call
type PassengerInput struct {
	SeatID     string `json:"seat_id" binding:"required,uuid"`
	FirstName  string `json:"first_name" binding:"required,max=80"`
	LastName   string `json:"last_name" binding:"required,max=80"`
	NationalID string `json:"national_id" binding:"omitempty,max=20"`
}

// AttachPassengersRequest assigns one passenger per reserved seat
type AttachPassengersRequest struct {
	Passengers  []PassengerInput `json:"passengers" binding:"required,min=1,dive"`
	ContactName string           `json:"contact_name" binding:"omitempty,max=120"`
	ContactMail string           `json:"contact_mail" binding:"omitempty,email"`
}

// ReservationResponse is the API shape of one reservation
type ReservationResponse struct {
	ID          string      `json:"id"`
	TripID      string      `json:"trip_id"`
	Status      string      `json:"status"`
	TotalAmount float64     `json:"total_amount"`
	Currency    string      `json:"currency"`
	PNR         string      `json:"pnr,omitempty"`
	ContactName string      `json:"contact_name,omitempty"`
	ContactMail string      `json:"contact_mail,omitempty"`
	ConfirmedAt *time.Time  `json:"confirmed_at,omitempty"`
	Passengers  []Passenger `json:"passengers,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// ToResponse converts a Reservation to its API shape
func (r *Reservation) ToResponse() ReservationResponse {
	return ReservationResponse{
		ID:          r.ID.String(),
		TripID:      r.TripID.String(),
		Status:      r.Status,
		TotalAmount: r.TotalAmount,
		Currency:    r.Currency,
		PNR:         r.PNR,
		ContactName: r.ContactName,
		ContactMail: r.ContactMail,
		ConfirmedAt: r.ConfirmedAt,
		Passengers:  r.Passengers,
		CreatedAt:   r.CreatedAt,
	}
}
