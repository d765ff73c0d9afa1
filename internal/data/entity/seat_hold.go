package entity

import (
	"time"

	"github.com/google/uuid"
)

// SeatHold is one held seat row. A user's logical hold on a showtime is the
// set of their rows for it; a new grant replaces the previous set. A hold is
// active while now < ExpiresAt regardless of whether the reaper has removed
// the row yet.
type SeatHold struct {
	ShowtimeID uuid.UUID `db:"showtime_id"`
	SeatName   string    `db:"seat_name"`
	UserID     uuid.UUID `db:"user_id"`
	ExpiresAt  time.Time `db:"expires_at"`
	CreatedAt  time.Time `db:"created_at"`
}

// Active reports whether the hold still blocks other users at the given
// instant.
func (h *SeatHold) Active(now time.Time) bool {
	return now.Before(h.ExpiresAt)
}
