package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cinema-tickets/internal/data/entity"
	"cinema-tickets/internal/data/repository"
	"cinema-tickets/internal/dto/response"
	"cinema-tickets/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Seat statuses as the requesting user sees them.
const (
	SeatStatusSold       = "sold"
	SeatStatusHeld       = "held"
	SeatStatusHeldByUser = "held_by_you"
	SeatStatusFree       = "free"
)

// AvailabilityCache stores short-lived seat snapshots. *cache.Cache
// implements it; tests swap in a fake.
type AvailabilityCache interface {
	GetAvailability(ctx context.Context, showtimeID string) ([]byte, bool)
	SetAvailability(ctx context.Context, showtimeID string, payload []byte)
	InvalidateAvailability(ctx context.Context, showtimeID string)
}

// AvailabilityService answers the seat-map question: for a showtime, which
// seats are sold, which are held, and which are free. Every seat lands in
// exactly one bucket.
type AvailabilityService interface {
	// GetSeatMap renders the seat map from the caller's point of view.
	// userID may be uuid.Nil for anonymous callers; held seats then never
	// show as held_by_you.
	GetSeatMap(ctx context.Context, userID uuid.UUID, showtimeID string) (*response.AvailabilityResponse, error)
}

type availabilityService struct {
	repo  *repository.Repository
	cache AvailabilityCache
	log   *zap.Logger
}

func NewAvailabilityService(repo *repository.Repository, cache AvailabilityCache, log *zap.Logger) AvailabilityService {
	return &availabilityService{
		repo:  repo,
		cache: cache,
		log:   log.With(zap.String("service", "availability")),
	}
}

// snapshot is the cached, user-agnostic seat state. Hold expiries are kept so
// a slightly stale snapshot still renders expired holds as free.
type snapshot struct {
	Sold  []string       `json:"sold"`
	Holds []snapshotHold `json:"holds"`
}

type snapshotHold struct {
	SeatName  string    `json:"seat_name"`
	UserID    uuid.UUID `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *availabilityService) GetSeatMap(ctx context.Context, userID uuid.UUID, showtimeID string) (*response.AvailabilityResponse, error) {
	id, err := utils.ParseUUID(showtimeID)
	if err != nil {
		return nil, fmt.Errorf("invalid showtime ID %s: %w", showtimeID, entity.ErrInvalidSelection)
	}

	showtime, err := s.repo.Showtime.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if showtime == nil {
		return nil, entity.ErrNotFound
	}

	screen, err := s.repo.Screen.FindByID(ctx, showtime.ScreenID)
	if err != nil {
		return nil, err
	}
	if screen == nil {
		return nil, fmt.Errorf("screen %s for showtime %s: %w", showtime.ScreenID.String(), showtimeID, entity.ErrNotFound)
	}

	snap, err := s.loadSnapshot(ctx, id)
	if err != nil {
		return nil, err
	}

	return renderSeatMap(showtimeID, userID, screen.Layout, snap, time.Now()), nil
}

func (s *availabilityService) loadSnapshot(ctx context.Context, showtimeID uuid.UUID) (*snapshot, error) {
	key := showtimeID.String()

	if s.cache != nil {
		if payload, ok := s.cache.GetAvailability(ctx, key); ok {
			var snap snapshot
			if err := json.Unmarshal(payload, &snap); err == nil {
				return &snap, nil
			}
			s.log.Warn("Dropping undecodable availability snapshot", zap.String("showtime_id", key))
			s.cache.InvalidateAvailability(ctx, key)
		}
	}

	sold, err := s.repo.Ledger.SoldSeatNames(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	holds, err := s.repo.Hold.FindActiveByShowtime(ctx, showtimeID, time.Now())
	if err != nil {
		return nil, err
	}

	snap := &snapshot{Sold: sold}
	for _, hold := range holds {
		snap.Holds = append(snap.Holds, snapshotHold{
			SeatName:  hold.SeatName,
			UserID:    hold.UserID,
			ExpiresAt: hold.ExpiresAt,
		})
	}

	if s.cache != nil {
		if payload, err := json.Marshal(snap); err == nil {
			s.cache.SetAvailability(ctx, key, payload)
		}
	}

	return snap, nil
}

// renderSeatMap partitions the layout. Sold wins over held; an expired hold
// counts as free even if its row still exists.
func renderSeatMap(showtimeID string, userID uuid.UUID, layout []entity.SeatDefinition, snap *snapshot, now time.Time) *response.AvailabilityResponse {
	soldSet := make(map[string]bool, len(snap.Sold))
	for _, seat := range snap.Sold {
		soldSet[seat] = true
	}

	holders := make(map[string]uuid.UUID, len(snap.Holds))
	for _, hold := range snap.Holds {
		if now.Before(hold.ExpiresAt) {
			holders[hold.SeatName] = hold.UserID
		}
	}

	resp := &response.AvailabilityResponse{ShowtimeID: showtimeID}
	for _, seat := range layout {
		status := SeatStatusFree
		switch {
		case soldSet[seat.SeatName]:
			status = SeatStatusSold
			resp.Summary.Sold++
		case holders[seat.SeatName] != uuid.Nil:
			if holders[seat.SeatName] == userID {
				status = SeatStatusHeldByUser
				resp.Summary.HeldByUser++
			} else {
				status = SeatStatusHeld
			}
			resp.Summary.Held++
		default:
			resp.Summary.Free++
		}

		resp.Seats = append(resp.Seats, response.SeatAvailability{
			SeatName:   seat.SeatName,
			Class:      string(seat.Class),
			PriceCents: seat.PriceCents,
			Status:     status,
		})
	}

	return resp
}
