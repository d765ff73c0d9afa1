package response

import (
	"time"

	"cinema-tickets/internal/data/entity"
)

type HoldResponse struct {
	ShowtimeID string    `json:"showtime_id"`
	Seats      []string  `json:"seats"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type SeatConflictResponse struct {
	Reason string   `json:"reason"`
	Seats  []string `json:"seats"`
}

// Helper converters
func HoldsToResponse(showtimeID string, holds []*entity.SeatHold) HoldResponse {
	resp := HoldResponse{ShowtimeID: showtimeID}
	for _, hold := range holds {
		resp.Seats = append(resp.Seats, hold.SeatName)
		if hold.ExpiresAt.After(resp.ExpiresAt) {
			resp.ExpiresAt = hold.ExpiresAt
		}
	}
	return resp
}

func ConflictToResponse(conflict *entity.SeatConflictError) SeatConflictResponse {
	return SeatConflictResponse{
		Reason: string(conflict.Reason),
		Seats:  conflict.Seats,
	}
}
