package entity

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for business outcomes. Handlers map these to HTTP codes;
// services never retry them.
var (
	ErrInvalidSelection    = errors.New("invalid seat selection")
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrOverlappingShowtime = errors.New("showtime overlaps with an existing show on this screen")
	ErrNotFound            = errors.New("not found")
)

type ConflictReason string

const (
	ConflictSold ConflictReason = "sold"
	ConflictHeld ConflictReason = "held"
)

// SeatConflictError reports which seats blocked a hold or a finalize so the
// client can redraw availability.
type SeatConflictError struct {
	Reason ConflictReason
	Seats  []string
}

func (e *SeatConflictError) Error() string {
	switch e.Reason {
	case ConflictSold:
		return fmt.Sprintf("seats already sold: %s", strings.Join(e.Seats, ", "))
	default:
		return fmt.Sprintf("seats held by another user: %s", strings.Join(e.Seats, ", "))
	}
}

// IsSeatConflict unwraps err into a *SeatConflictError if it is one.
func IsSeatConflict(err error) (*SeatConflictError, bool) {
	var ce *SeatConflictError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
