package entity

import (
	"time"

	"github.com/google/uuid"
)

// Showtime is a screening of a movie on one screen over [StartTime, EndTime).
// Immutable once created except for deletion. No two showtimes on the same
// screen may overlap.
type Showtime struct {
	Base
	MovieID   uuid.UUID `db:"movie_id"`
	HallID    uuid.UUID `db:"hall_id"`
	ScreenID  uuid.UUID `db:"screen_id"`
	StartTime time.Time `db:"start_time"`
	EndTime   time.Time `db:"end_time"`
}

// Overlaps reports whether the [start, end) interval collides with this
// showtime's interval.
func (s *Showtime) Overlaps(start, end time.Time) bool {
	return s.StartTime.Before(end) && s.EndTime.After(start)
}
