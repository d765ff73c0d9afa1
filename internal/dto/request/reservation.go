package request

type ReserveSeatsRequest struct {
	ShowtimeID string   `json:"showtime_id" validate:"required,uuid4"`
	Seats      []string `json:"seats" validate:"required,min=1,max=10,dive,min=2,max=5"`
}

type ReleaseSeatsRequest struct {
	ShowtimeID string `json:"showtime_id" validate:"required,uuid4"`
}
