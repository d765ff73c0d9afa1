package entity

import "github.com/google/uuid"

type SeatClass string

const (
	SeatClassRegular SeatClass = "regular"
	SeatClassPremium SeatClass = "premium"
	SeatClassVIP     SeatClass = "vip"
)

// SeatDefinition is one seat in a screen's layout. Seat names are unique
// within a screen; the layout is immutable after creation and edits replace
// the whole set.
type SeatDefinition struct {
	SeatName   string    `db:"seat_name"` // A1, A2, B1, etc.
	Class      SeatClass `db:"class"`
	PriceCents int64     `db:"price_cents"`
}

type Screen struct {
	Base
	HallID uuid.UUID        `db:"hall_id"`
	Name   string           `db:"name"`
	Layout []SeatDefinition `db:"-"`
}
