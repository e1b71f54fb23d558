package notifications

import (
	"context"
	"fmt"
	"log/slog"
)

// EmailService delivers ticket emails. The mock implementation logs the
// delivery instead of talking to an SMTP relay.
type EmailService interface {
	SendTicket(ctx context.Context, email *TicketEmail) error
}

type mockEmailService struct {
	logger *slog.Logger
}

func NewMockEmailService(logger *slog.Logger) EmailService {
	return &mockEmailService{logger: logger}
}

func (s *mockEmailService) SendTicket(ctx context.Context, email *TicketEmail) error {
	if email.RecipientMail == "" {
		return fmt.Errorf("ticket email %s has no recipient", email.ID)
	}

	s.logger.Info("ticket email sent",
		"to", email.RecipientMail,
		"subject", email.Subject(),
		"pnr", email.PNR,
		"amount", fmt.Sprintf("%.2f %s", email.TotalAmount, email.Currency),
		"seats", email.SeatCount,
	)
	return nil
}
