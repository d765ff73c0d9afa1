package usecase

import (
	"cinema-tickets/internal/data/repository"
	"cinema-tickets/internal/notifier"
	"cinema-tickets/internal/payment"
	"cinema-tickets/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth         AuthService
	Catalog      CatalogService
	Availability AvailabilityService
	Reservation  ReservationService
	Booking      BookingService
}

func NewService(
	repo *repository.Repository,
	config *utils.Config,
	cache AvailabilityCache,
	gateway payment.Gateway,
	notify notifier.Notifier,
	log *zap.Logger,
) *Service {
	availability := NewAvailabilityService(repo, cache, log)
	return &Service{
		Auth:         NewAuthService(repo, config, log),
		Catalog:      NewCatalogService(repo, log),
		Availability: availability,
		Reservation:  NewReservationService(repo, config, cache, log),
		Booking:      NewBookingService(repo, config, cache, gateway, notify, log),
	}
}
