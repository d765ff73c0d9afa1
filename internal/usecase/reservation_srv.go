package usecase

import (
	"context"
	"fmt"
	"time"

	"cinema-tickets/internal/data/entity"
	"cinema-tickets/internal/data/repository"
	"cinema-tickets/internal/dto/request"
	"cinema-tickets/internal/dto/response"
	"cinema-tickets/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReservationService grants and releases temporary seat holds. A grant
// replaces the user's previous hold on the showtime; conflicts surface as
// *entity.SeatConflictError with the contested seat names.
type ReservationService interface {
	Reserve(ctx context.Context, userID uuid.UUID, req *request.ReserveSeatsRequest) (*response.HoldResponse, error)

	// Release drops the user's hold. Releasing nothing is not an error.
	Release(ctx context.Context, userID uuid.UUID, req *request.ReleaseSeatsRequest) error

	// ActiveHold returns the user's current hold on a showtime, or nil.
	ActiveHold(ctx context.Context, userID uuid.UUID, showtimeID string) (*response.HoldResponse, error)
}

type reservationService struct {
	repo   *repository.Repository
	config *utils.Config
	cache  AvailabilityCache
	log    *zap.Logger
}

func NewReservationService(repo *repository.Repository, config *utils.Config, cache AvailabilityCache, log *zap.Logger) ReservationService {
	return &reservationService{
		repo:   repo,
		config: config,
		cache:  cache,
		log:    log.With(zap.String("service", "reservation")),
	}
}

func (s *reservationService) Reserve(ctx context.Context, userID uuid.UUID, req *request.ReserveSeatsRequest) (*response.HoldResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s: %w", utils.FormatValidationErrors(errs), entity.ErrInvalidSelection)
	}
	if userID == uuid.Nil {
		return nil, entity.ErrUnauthenticated
	}

	showtimeID, err := utils.ParseUUID(req.ShowtimeID)
	if err != nil {
		return nil, fmt.Errorf("invalid showtime ID %s: %w", req.ShowtimeID, entity.ErrInvalidSelection)
	}

	seats, err := normalizeSelection(req.Seats, s.config.Reservation.MaxSeatsPerOrder)
	if err != nil {
		return nil, err
	}

	showtime, err := s.repo.Showtime.FindByID(ctx, showtimeID)
	if err != nil {
		return nil, err
	}
	if showtime == nil {
		return nil, fmt.Errorf("showtime %s: %w", req.ShowtimeID, entity.ErrNotFound)
	}

	now := time.Now()
	if !now.Before(showtime.StartTime) {
		return nil, fmt.Errorf("showtime already started: %w", entity.ErrInvalidSelection)
	}

	if err := s.checkSeatsExist(ctx, showtime.ScreenID, seats); err != nil {
		return nil, err
	}

	expiresAt := now.Add(s.config.Reservation.HoldDuration)

	err = withTxRetry(ctx, func() error {
		return s.repo.Hold.Grant(ctx, showtimeID, userID, seats, expiresAt, time.Now())
	})
	if err != nil {
		if conflict, ok := entity.IsSeatConflict(err); ok {
			s.log.Info("Reservation rejected on conflict",
				zap.String("showtime_id", req.ShowtimeID),
				zap.String("user_id", userID.String()),
				zap.String("reason", string(conflict.Reason)),
				zap.Strings("seats", conflict.Seats),
			)
		}
		return nil, err
	}

	if s.cache != nil {
		s.cache.InvalidateAvailability(ctx, req.ShowtimeID)
	}

	s.log.Info("Seats reserved",
		zap.String("showtime_id", req.ShowtimeID),
		zap.String("user_id", userID.String()),
		zap.Strings("seats", seats),
		zap.Time("expires_at", expiresAt),
	)

	return &response.HoldResponse{
		ShowtimeID: req.ShowtimeID,
		Seats:      seats,
		ExpiresAt:  expiresAt,
	}, nil
}

// normalizeSelection rejects empty, oversized and duplicated selections.
func normalizeSelection(seats []string, maxSeats int) ([]string, error) {
	if len(seats) == 0 {
		return nil, fmt.Errorf("no seats selected: %w", entity.ErrInvalidSelection)
	}
	if maxSeats > 0 && len(seats) > maxSeats {
		return nil, fmt.Errorf("at most %d seats per order: %w", maxSeats, entity.ErrInvalidSelection)
	}

	seen := make(map[string]bool, len(seats))
	for _, seat := range seats {
		if seat == "" {
			return nil, fmt.Errorf("empty seat name: %w", entity.ErrInvalidSelection)
		}
		if seen[seat] {
			return nil, fmt.Errorf("seat %s selected twice: %w", seat, entity.ErrInvalidSelection)
		}
		seen[seat] = true
	}
	return seats, nil
}

// checkSeatsExist verifies every requested seat is part of the screen layout.
func (s *reservationService) checkSeatsExist(ctx context.Context, screenID uuid.UUID, seats []string) error {
	screen, err := s.repo.Screen.FindByID(ctx, screenID)
	if err != nil {
		return err
	}
	if screen == nil {
		return fmt.Errorf("screen %s: %w", screenID.String(), entity.ErrNotFound)
	}

	known := make(map[string]bool, len(screen.Layout))
	for _, seat := range screen.Layout {
		known[seat.SeatName] = true
	}

	for _, seat := range seats {
		if !known[seat] {
			return fmt.Errorf("seat %s does not exist on this screen: %w", seat, entity.ErrInvalidSelection)
		}
	}
	return nil
}

func (s *reservationService) Release(ctx context.Context, userID uuid.UUID, req *request.ReleaseSeatsRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("validation failed: %s: %w", utils.FormatValidationErrors(errs), entity.ErrInvalidSelection)
	}
	if userID == uuid.Nil {
		return entity.ErrUnauthenticated
	}

	showtimeID, err := utils.ParseUUID(req.ShowtimeID)
	if err != nil {
		return fmt.Errorf("invalid showtime ID %s: %w", req.ShowtimeID, entity.ErrInvalidSelection)
	}

	if err := s.repo.Hold.Release(ctx, showtimeID, userID); err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.InvalidateAvailability(ctx, req.ShowtimeID)
	}

	s.log.Info("Hold released",
		zap.String("showtime_id", req.ShowtimeID),
		zap.String("user_id", userID.String()),
	)
	return nil
}

func (s *reservationService) ActiveHold(ctx context.Context, userID uuid.UUID, showtimeID string) (*response.HoldResponse, error) {
	if userID == uuid.Nil {
		return nil, entity.ErrUnauthenticated
	}

	id, err := utils.ParseUUID(showtimeID)
	if err != nil {
		return nil, fmt.Errorf("invalid showtime ID %s: %w", showtimeID, entity.ErrInvalidSelection)
	}

	holds, err := s.repo.Hold.FindActiveByUser(ctx, id, userID, time.Now())
	if err != nil {
		return nil, err
	}
	if len(holds) == 0 {
		return nil, nil
	}

	resp := response.HoldsToResponse(showtimeID, holds)
	return &resp, nil
}
