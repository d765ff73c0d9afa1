package wire

import (
	"cinema-tickets/internal/adaptor"
	"cinema-tickets/pkg/middleware"
	"cinema-tickets/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePayment(r chi.Router, paymentHandler *adaptor.PaymentHandler, config *utils.Config, log *zap.Logger) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT.Secret, log))

		r.Post("/api/payment/create-intent", paymentHandler.CreateIntent)
	})

	// Authenticated by signature, not by bearer token.
	r.Post("/api/payment/webhook", paymentHandler.Webhook)
}
