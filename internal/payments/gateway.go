package payments

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

var ErrCardDeclined = errors.New("card declined")

// Gateway charges cards. The mock implementation stands in for a PSP
// integration and approves everything except a reserved test card.
type Gateway interface {
	Charge(ctx context.Context, amount float64, currency string, card CardDetails) (string, error)
}

// CardDetails is what the gateway sees. Never persisted.
type CardDetails struct {
	Holder      string
	Number      string
	ExpiryMonth int
	ExpiryYear  int
	CVV         string
}

// declineCard forces a failed charge in demos and tests.
const declineCard = "4000000000000002"

type mockGateway struct{}

func NewMockGateway() Gateway {
	return &mockGateway{}
}

// Charge approves the payment and returns a transaction reference like
// "TXN_8F3K2Q9D". The decline test card fails deterministically.
func (g *mockGateway) Charge(ctx context.Context, amount float64, currency string, card CardDetails) (string, error) {
	if amount <= 0 {
		return "", fmt.Errorf("invalid charge amount %.2f", amount)
	}
	if strings.ReplaceAll(card.Number, " ", "") == declineCard {
		return "", ErrCardDeclined
	}

	ref, err := transactionRef()
	if err != nil {
		return "", fmt.Errorf("failed to create transaction reference: %w", err)
	}
	return ref, nil
}

const txnAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func transactionRef() (string, error) {
	var b strings.Builder
	b.WriteString("TXN_")
	for i := 0; i < 8; i++ {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(txnAlphabet))))
		if err != nil {
			return "", err
		}
		b.WriteByte(txnAlphabet[idx.Int64()])
	}
	return b.String(), nil
}
