package adaptor

import (
	"cinema-tickets/internal/payment"
	"cinema-tickets/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth        *AuthHandler
	Catalog     *CatalogHandler
	Reservation *ReservationHandler
	Booking     *BookingHandler
	Payment     *PaymentHandler
}

func NewHandler(service *usecase.Service, gateway payment.Gateway, log *zap.Logger) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(service.Auth, log),
		Catalog:     NewCatalogHandler(service.Catalog, log),
		Reservation: NewReservationHandler(service.Reservation, service.Availability, log),
		Booking:     NewBookingHandler(service.Booking, log),
		Payment:     NewPaymentHandler(service.Booking, gateway, log),
	}
}
