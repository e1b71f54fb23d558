package reservations

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"
)

// TicketTripInfo carries the trip details printed on the e-ticket.
type TicketTripInfo struct {
	From      string
	To        string
	Company   string
	Departure string
}

// BuildTicketPDF renders the e-ticket for a confirmed reservation. Returns
// the PDF bytes and a download filename.
func BuildTicketPDF(reservation *Reservation, trip TicketTripInfo) ([]byte, string, error) {
	if !reservation.IsConfirmed() {
		return nil, "", ErrNotConfirmed
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("PNR        : %s", reservation.PNR),
		fmt.Sprintf("Route      : %s -> %s", orDash(trip.From), orDash(trip.To)),
		fmt.Sprintf("Company    : %s", orDash(trip.Company)),
		fmt.Sprintf("Departure  : %s", orDash(trip.Departure)),
		fmt.Sprintf("Amount     : %.2f %s", reservation.TotalAmount, reservation.Currency),
		fmt.Sprintf("Contact    : %s", orDash(reservation.ContactName)),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Passengers")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 12)
	for i := range reservation.Passengers {
		p := &reservation.Passengers[i]
		seatNo := "-"
		if p.Seat != nil {
			seatNo = fmt.Sprintf("%d", p.Seat.SeatNo)
		}
		pdf.Cell(0, 7, fmt.Sprintf("Seat %s: %s %s", seatNo, orDash(p.FirstName), orDash(p.LastName)))
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please present this ticket and a valid ID at boarding.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to render ticket: %w", err)
	}

	filename := fmt.Sprintf("ETICKET_%s.pdf", reservation.PNR)
	return buf.Bytes(), filename, nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
