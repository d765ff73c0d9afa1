package response

import (
	"time"

	"cinema-tickets/internal/data/entity"
)

type BookingResponse struct {
	ID              string    `json:"id"`
	Reference       string    `json:"reference"`
	ShowtimeID      string    `json:"showtime_id"`
	UserID          string    `json:"user_id"`
	PaymentRef      string    `json:"payment_ref"`
	Seats           []string  `json:"seats"`
	TotalPriceCents int64     `json:"total_price_cents"`
	CreatedAt       time.Time `json:"created_at"`
}

type PaymentIntentResponse struct {
	IntentID    string `json:"intent_id"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
}

// Helper converters
func BookingToResponse(booking *entity.Booking) BookingResponse {
	resp := BookingResponse{
		ID:              booking.ID.String(),
		Reference:       booking.Reference,
		ShowtimeID:      booking.ShowtimeID.String(),
		UserID:          booking.UserID.String(),
		PaymentRef:      booking.PaymentRef,
		TotalPriceCents: booking.TotalPriceCents,
		CreatedAt:       booking.CreatedAt,
	}
	for _, seat := range booking.Seats {
		resp.Seats = append(resp.Seats, seat.SeatName)
	}
	return resp
}
