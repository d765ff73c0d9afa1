package wire

import (
	"cinema-tickets/internal/adaptor"
	"cinema-tickets/pkg/middleware"
	"cinema-tickets/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReservation(r chi.Router, reservationHandler *adaptor.ReservationHandler, config *utils.Config, log *zap.Logger) {
	// Seat map is public but personalized when a valid token rides along.
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuth(config.JWT.Secret))

		r.Get("/api/showtimes/{id}/seats", reservationHandler.GetSeatMap)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT.Secret, log))

		r.Post("/api/seats/reserve", reservationHandler.Reserve)
		r.Post("/api/seats/release", reservationHandler.Release)
		r.Get("/api/showtimes/{id}/hold", reservationHandler.GetActiveHold)
	})
}
