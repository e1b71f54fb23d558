package trips

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"busline/internal/shared/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Malformed IDs must come back as errors before any write happens. The nil
// repository guarantees the test blows up if the service gets further.
func TestCreateTripRejectsMalformedIDs(t *testing.T) {
	svc := NewService(nil, nil, &config.Config{}, testLogger())

	base := CreateTripRequest{
		Departure:    time.Now().Add(24 * time.Hour),
		Arrival:      time.Now().Add(28 * time.Hour),
		Price:        500,
		LayoutType:   "2+1",
		FromAgencyID: uuid.NewString(),
		ToAgencyID:   uuid.NewString(),
		CompanyID:    uuid.NewString(),
	}

	cases := []struct {
		name   string
		mutate func(*CreateTripRequest)
	}{
		{"from agency", func(r *CreateTripRequest) { r.FromAgencyID = "not-a-uuid" }},
		{"to agency", func(r *CreateTripRequest) { r.ToAgencyID = "" }},
		{"company", func(r *CreateTripRequest) { r.CompanyID = "1234" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := base
			tc.mutate(&req)

			_, err := svc.CreateTrip(context.Background(), req)
			assert.Error(t, err)
		})
	}
}
