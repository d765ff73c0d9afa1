package response

type SeatAvailability struct {
	SeatName   string `json:"seat_name"`
	Class      string `json:"class"`
	PriceCents int64  `json:"price_cents"`
	Status     string `json:"status"`
}

// AvailabilityResponse partitions a showtime's seats into sold, held and
// free, from the point of view of the requesting user.
type AvailabilityResponse struct {
	ShowtimeID string             `json:"showtime_id"`
	Seats      []SeatAvailability `json:"seats"`
	Summary    AvailabilityTotals `json:"summary"`
}

type AvailabilityTotals struct {
	Sold       int `json:"sold"`
	Held       int `json:"held"`
	HeldByUser int `json:"held_by_user"`
	Free       int `json:"free"`
}
