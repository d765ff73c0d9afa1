package usecase

import (
	"context"
	"fmt"
	"time"

	"cinema-tickets/internal/data/entity"
	"cinema-tickets/internal/data/repository"
	"cinema-tickets/internal/dto/request"
	"cinema-tickets/internal/dto/response"
	"cinema-tickets/internal/notifier"
	"cinema-tickets/internal/payment"
	"cinema-tickets/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventPaymentSucceeded is the only webhook event type that finalizes a
// booking; everything else is acknowledged and dropped.
const EventPaymentSucceeded = "payment_intent.succeeded"

// BookingService turns paid-for holds into permanent bookings. The payment
// reference is the idempotence key end to end: a replayed webhook or a
// retried client finalize lands on the same booking.
type BookingService interface {
	CreatePaymentIntent(ctx context.Context, userID uuid.UUID, req *request.CreatePaymentIntentRequest) (*response.PaymentIntentResponse, error)

	// HandlePaymentEvent finalizes a booking from a verified gateway
	// callback. Non-success events return (nil, nil).
	HandlePaymentEvent(ctx context.Context, event *request.PaymentWebhookEvent) (*response.BookingResponse, error)

	// CreateBooking is the client-driven finalize path with a caller-supplied
	// payment reference.
	CreateBooking(ctx context.Context, userID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error)

	GetBooking(ctx context.Context, userID uuid.UUID, bookingID string) (*response.BookingResponse, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
}

type bookingService struct {
	repo    *repository.Repository
	config  *utils.Config
	cache   AvailabilityCache
	gateway payment.Gateway
	notify  notifier.Notifier
	log     *zap.Logger
}

func NewBookingService(
	repo *repository.Repository,
	config *utils.Config,
	cache AvailabilityCache,
	gateway payment.Gateway,
	notify notifier.Notifier,
	log *zap.Logger,
) BookingService {
	return &bookingService{
		repo:    repo,
		config:  config,
		cache:   cache,
		gateway: gateway,
		notify:  notify,
		log:     log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreatePaymentIntent(ctx context.Context, userID uuid.UUID, req *request.CreatePaymentIntentRequest) (*response.PaymentIntentResponse, error) {
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

	_, prices, err := s.priceSelection(ctx, showtimeID, seats)
	if err != nil {
		return nil, err
	}

	var amount int64
	for _, price := range prices {
		amount += price
	}

	intent, err := s.gateway.CreateIntent(userID.String(), req.ShowtimeID, seats, amount)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	return &response.PaymentIntentResponse{
		IntentID:    intent.ID,
		AmountCents: intent.AmountCents,
		Currency:    intent.Currency,
	}, nil
}

func (s *bookingService) HandlePaymentEvent(ctx context.Context, event *request.PaymentWebhookEvent) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(event); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s: %w", utils.FormatValidationErrors(errs), entity.ErrInvalidSelection)
	}

	if event.Type != EventPaymentSucceeded {
		s.log.Info("Ignoring payment event", zap.String("type", event.Type))
		return nil, nil
	}

	userID, err := utils.ParseUUID(event.Data.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in event: %w", entity.ErrInvalidSelection)
	}
	showtimeID, err := utils.ParseUUID(event.Data.ShowtimeID)
	if err != nil {
		return nil, fmt.Errorf("invalid showtime ID in event: %w", entity.ErrInvalidSelection)
	}

	booking, err := s.finalize(ctx, userID, showtimeID, event.Data.Seats, event.Data.IntentID)
	if err != nil {
		return nil, err
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) CreateBooking(ctx context.Context, userID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
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

	booking, err := s.finalize(ctx, userID, showtimeID, req.Seats, req.PaymentRef)
	if err != nil {
		return nil, err
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

// finalize runs the common commit path for both the webhook and the client
// fallback. An expired or missing hold does not block it; the sold-seat
// uniqueness check inside Finalize is the real gate.
func (s *bookingService) finalize(ctx context.Context, userID, showtimeID uuid.UUID, seatNames []string, paymentRef string) (*entity.Booking, error) {
	seats, err := normalizeSelection(seatNames, s.config.Reservation.MaxSeatsPerOrder)
	if err != nil {
		return nil, err
	}

	_, prices, err := s.priceSelection(ctx, showtimeID, seats)
	if err != nil {
		return nil, err
	}

	booking := &entity.Booking{
		BaseSimple: entity.BaseSimple{
			ID:        utils.GenerateUUID(),
			CreatedAt: time.Now(),
		},
		Reference:  utils.GenerateBookingReference(),
		ShowtimeID: showtimeID,
		UserID:     userID,
		PaymentRef: paymentRef,
	}
	for _, seat := range seats {
		price := prices[seat]
		booking.TotalPriceCents += price
		booking.Seats = append(booking.Seats, entity.SoldSeat{
			BookingID:  booking.ID,
			ShowtimeID: showtimeID,
			SeatName:   seat,
			UserID:     userID,
			PriceCents: price,
		})
	}

	var committed *entity.Booking
	err = withTxRetry(ctx, func() error {
		var txErr error
		committed, txErr = s.repo.Ledger.Finalize(ctx, booking)
		return txErr
	})
	if err != nil {
		if conflict, ok := entity.IsSeatConflict(err); ok {
			s.log.Warn("Finalize rejected on sold seats",
				zap.String("showtime_id", showtimeID.String()),
				zap.String("payment_ref", paymentRef),
				zap.Strings("seats", conflict.Seats),
			)
		}
		return nil, err
	}

	if s.cache != nil {
		s.cache.InvalidateAvailability(ctx, showtimeID.String())
	}

	// A replay hands back an older booking; only a fresh commit notifies.
	if committed.ID == booking.ID {
		s.log.Info("Booking finalized",
			zap.String("booking_id", committed.ID.String()),
			zap.String("reference", committed.Reference),
			zap.String("payment_ref", paymentRef),
			zap.Int64("total_price_cents", committed.TotalPriceCents),
		)
		if s.notify != nil {
			go s.notify.BookingConfirmed(context.WithoutCancel(ctx), committed)
		}
	} else {
		s.log.Info("Finalize replay returned existing booking",
			zap.String("booking_id", committed.ID.String()),
			zap.String("payment_ref", paymentRef),
		)
	}

	return committed, nil
}

// priceSelection resolves each requested seat against the showtime's screen
// layout and returns the showtime plus a seat-to-price map.
func (s *bookingService) priceSelection(ctx context.Context, showtimeID uuid.UUID, seats []string) (*entity.Showtime, map[string]int64, error) {
	showtime, err := s.repo.Showtime.FindByID(ctx, showtimeID)
	if err != nil {
		return nil, nil, err
	}
	if showtime == nil {
		return nil, nil, fmt.Errorf("showtime %s: %w", showtimeID.String(), entity.ErrNotFound)
	}

	screen, err := s.repo.Screen.FindByID(ctx, showtime.ScreenID)
	if err != nil {
		return nil, nil, err
	}
	if screen == nil {
		return nil, nil, fmt.Errorf("screen %s: %w", showtime.ScreenID.String(), entity.ErrNotFound)
	}

	prices := make(map[string]int64, len(screen.Layout))
	for _, seat := range screen.Layout {
		prices[seat.SeatName] = seat.PriceCents
	}

	for _, seat := range seats {
		if _, ok := prices[seat]; !ok {
			return nil, nil, fmt.Errorf("seat %s does not exist on this screen: %w", seat, entity.ErrInvalidSelection)
		}
	}

	return showtime, prices, nil
}

func (s *bookingService) GetBooking(ctx context.Context, userID uuid.UUID, bookingID string) (*response.BookingResponse, error) {
	id, err := utils.ParseUUID(bookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID %s: %w", bookingID, entity.ErrInvalidSelection)
	}

	booking, err := s.repo.Ledger.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil || booking.UserID != userID {
		// Hide other users' bookings behind not-found.
		return nil, entity.ErrNotFound
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	if userID == uuid.Nil {
		return nil, entity.ErrUnauthenticated
	}

	bookings, err := s.repo.Ledger.FindByUserID(ctx, userID, req.Limit(), req.Offset())
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Ledger.CountByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]response.BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		items = append(items, response.BookingToResponse(booking))
	}

	return response.NewPaginatedResponse(items, req.Page, req.PerPage, total), nil
}
