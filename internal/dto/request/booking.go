package request

type CreateBookingRequest struct {
	ShowtimeID string   `json:"showtime_id" validate:"required,uuid4"`
	Seats      []string `json:"seats" validate:"required,min=1,max=10,dive,min=2,max=5"`
	PaymentRef string   `json:"payment_ref" validate:"required,min=8"`
}

type CreatePaymentIntentRequest struct {
	ShowtimeID string   `json:"showtime_id" validate:"required,uuid4"`
	Seats      []string `json:"seats" validate:"required,min=1,max=10,dive,min=2,max=5"`
}
