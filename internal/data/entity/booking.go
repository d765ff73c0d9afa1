package entity

import (
	"github.com/google/uuid"
)

// Booking is a permanent, payment-backed claim on seats for one showtime.
// PaymentRef is the idempotence key: finalizing twice with the same reference
// returns the same booking.
type Booking struct {
	BaseSimple
	Reference       string    `db:"reference"`
	ShowtimeID      uuid.UUID `db:"showtime_id"`
	UserID          uuid.UUID `db:"user_id"`
	PaymentRef      string    `db:"payment_ref"`
	TotalPriceCents int64     `db:"total_price_cents"`
	Seats           []SoldSeat
}

// SoldSeat is one row of the seat ledger. The storage layer enforces
// uniqueness on (showtime_id, seat_name); a violation is the double-sale
// signal.
type SoldSeat struct {
	BookingID  uuid.UUID `db:"booking_id"`
	ShowtimeID uuid.UUID `db:"showtime_id"`
	SeatName   string    `db:"seat_name"`
	UserID     uuid.UUID `db:"user_id"`
	PriceCents int64     `db:"price_cents"`
}
