package wire

import (
	"cinema-tickets/internal/adaptor"
	"cinema-tickets/pkg/middleware"
	"cinema-tickets/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler, config *utils.Config, log *zap.Logger) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT.Secret, log))

		r.Post("/api/bookings", bookingHandler.CreateBooking)
		r.Get("/api/bookings/{id}", bookingHandler.GetBooking)
		r.Get("/api/user/bookings", bookingHandler.GetUserBookings)
	})
}
