package request

type PaymentWebhookEvent struct {
	Type string            `json:"type" validate:"required"`
	Data PaymentIntentData `json:"data" validate:"required"`
}

type PaymentIntentData struct {
	IntentID    string   `json:"intent_id" validate:"required"`
	UserID      string   `json:"user_id" validate:"required,uuid4"`
	ShowtimeID  string   `json:"showtime_id" validate:"required,uuid4"`
	Seats       []string `json:"seats" validate:"required,min=1,max=10"`
	AmountCents int64    `json:"amount_cents" validate:"required,min=1"`
}
