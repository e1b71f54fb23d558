package notifications

import (
	"encoding/json"
	"fmt"
	"time"

	"busline/internal/reservations"

	"github.com/google/uuid"
)

// Delivery status values
const (
	StatusQueued  = "queued"
	StatusSending = "sending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

// TicketEmail is the message that travels through Kafka: one confirmed
// reservation, one e-ticket email.
type TicketEmail struct {
	ID            uuid.UUID `json:"id"`
	ReservationID string    `json:"reservation_id"`
	TripID        string    `json:"trip_id"`
	PNR           string    `json:"pnr"`
	RecipientMail string    `json:"recipient_mail"`
	TotalAmount   float64   `json:"total_amount"`
	Currency      string    `json:"currency"`
	SeatCount     int       `json:"seat_count"`
	Status        string    `json:"status"`
	LastError     string    `json:"last_error,omitempty"`
	ConfirmedAt   time.Time `json:"confirmed_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewTicketEmail builds the outbound message for a confirmation event.
func NewTicketEmail(event reservations.TicketConfirmedEvent) *TicketEmail {
	return &TicketEmail{
		ID:            uuid.New(),
		ReservationID: event.ReservationID,
		TripID:        event.TripID,
		PNR:           event.PNR,
		RecipientMail: event.ContactMail,
		TotalAmount:   event.TotalAmount,
		Currency:      event.Currency,
		SeatCount:     event.SeatCount,
		Status:        StatusQueued,
		ConfirmedAt:   event.ConfirmedAt,
		CreatedAt:     time.Now(),
	}
}

// ToJSON serializes the message for the wire.
func (t *TicketEmail) ToJSON() ([]byte, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ticket email: %w", err)
	}
	return data, nil
}

// PartitionKey keeps all messages of one reservation on one partition.
func (t *TicketEmail) PartitionKey() string {
	return t.ReservationID
}

// Subject is the email subject line.
func (t *TicketEmail) Subject() string {
	return fmt.Sprintf("Your ticket is confirmed - %s", t.PNR)
}
