package reservations

// Price returns the total amount for a reservation: flat per-seat pricing,
// no fees, no discounts.
func Price(unitPrice float64, seatCount int) float64 {
	if seatCount <= 0 {
		return 0
	}
	return unitPrice * float64(seatCount)
}
