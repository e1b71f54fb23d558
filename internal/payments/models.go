package payments

import (
	"time"

	"github.com/google/uuid"
)

// Payment status values
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// MethodCard is the only payment method the mock gateway supports.
const MethodCard = "card"

// Payment is one charge attempt against a reservation. The amount always
// comes from the reservation's stored total, never from the client.
type Payment struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ReservationID uuid.UUID `gorm:"type:uuid;index;not null" json:"reservation_id"`
	Amount        float64   `gorm:"not null" json:"amount"`
	Currency      string     `gorm:"type:varchar(3);not null" json:"currency"`
	Method        string     `gorm:"type:varchar(16);not null;default:'card'" json:"method"`
	Status        string     `gorm:"type:varchar(16);not null;default:'pending';check:status IN ('pending', 'completed', 'failed')" json:"status"`
	TransactionID string     `gorm:"type:varchar(40)" json:"transaction_id,omitempty"`
	FailureReason string     `gorm:"type:varchar(255)" json:"failure_reason,omitempty"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName sets the table name for Payment
func (Payment) TableName() string {
	return "payments"
}

// CreatePaymentRequest charges a reservation. Card details are accepted but
// never stored; the gateway is the only consumer.
type CreatePaymentRequest struct {
	ReservationID string `json:"reservation_id" binding:"required,uuid"`
	CardHolder    string `json:"card_holder" binding:"required,max=120"`
	CardNumber    string `json:"card_number" binding:"required,min=12,max=19"`
	ExpiryMonth   int    `json:"expiry_month" binding:"required,min=1,max=12"`
	ExpiryYear    int    `json:"expiry_year" binding:"required,min=2024"`
	CVV           string `json:"cvv" binding:"required,len=3"`
}

// PaymentResponse is the API shape of one payment together with the
// confirmed reservation it produced.
type PaymentResponse struct {
	ID            string      `json:"id"`
	ReservationID string      `json:"reservation_id"`
	Amount        float64     `json:"amount"`
	Currency      string      `json:"currency"`
	Method        string      `json:"method"`
	Status        string      `json:"status"`
	TransactionID string      `json:"transaction_id,omitempty"`
	Reservation   interface{} `json:"reservation,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

// ToResponse converts a Payment to its API shape
func (p *Payment) ToResponse() PaymentResponse {
	return PaymentResponse{
		ID:            p.ID.String(),
		ReservationID: p.ReservationID.String(),
		Amount:        p.Amount,
		Currency:      p.Currency,
		Method:        p.Method,
		Status:        p.Status,
		TransactionID: p.TransactionID,
		CreatedAt:     p.CreatedAt,
	}
}
