package usecase

import (
	"time"

	"cinema-tickets/internal/payment"
	"cinema-tickets/pkg/utils"

	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func testConfig() *utils.Config {
	return &utils.Config{
		JWT: utils.JWTConfig{
			Secret:      "test-secret",
			ExpiryHours: 1,
		},
		Payment: utils.PaymentConfig{
			WebhookSecret: "whsec_test",
			Currency:      "usd",
		},
		Reservation: utils.ReservationConfig{
			HoldDuration:     10 * time.Minute,
			MaxSeatsPerOrder: 10,
			ReapInterval:     time.Minute,
		},
	}
}

func newTestGateway(config *utils.Config) payment.Gateway {
	return payment.NewGateway(config.Payment, testLogger())
}
