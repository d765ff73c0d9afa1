package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"cinema-tickets/pkg/utils"

	"go.uber.org/zap"
)

// Intent is a pending charge handed to the client for completion. The
// metadata round-trips through the gateway and comes back on the webhook, so
// finalization does not depend on any server-side session.
type Intent struct {
	ID          string   `json:"intent_id"`
	AmountCents int64    `json:"amount_cents"`
	Currency    string   `json:"currency"`
	UserID      string   `json:"user_id"`
	ShowtimeID  string   `json:"showtime_id"`
	Seats       []string `json:"seats"`
}

// Gateway creates payment intents and authenticates webhook callbacks.
type Gateway interface {
	CreateIntent(userID, showtimeID string, seats []string, amountCents int64) (*Intent, error)
	VerifySignature(payload []byte, signature string) bool
}

type hmacGateway struct {
	secret   []byte
	currency string
	log      *zap.Logger
}

// NewGateway returns a gateway that signs and verifies callbacks with
// HMAC-SHA256 over the raw payload.
func NewGateway(config utils.PaymentConfig, log *zap.Logger) Gateway {
	return &hmacGateway{
		secret:   []byte(config.WebhookSecret),
		currency: config.Currency,
		log:      log.With(zap.String("component", "payment")),
	}
}

func (g *hmacGateway) CreateIntent(userID, showtimeID string, seats []string, amountCents int64) (*Intent, error) {
	intent := &Intent{
		ID:          utils.GeneratePaymentIntentID(),
		AmountCents: amountCents,
		Currency:    g.currency,
		UserID:      userID,
		ShowtimeID:  showtimeID,
		Seats:       seats,
	}

	g.log.Info("Payment intent created",
		zap.String("intent_id", intent.ID),
		zap.Int64("amount_cents", amountCents),
		zap.String("showtime_id", showtimeID),
	)

	return intent, nil
}

func (g *hmacGateway) VerifySignature(payload []byte, signature string) bool {
	mac := hmac.New(sha256.New, g.secret)
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Sign computes the webhook signature for a payload. Exposed for test
// harnesses standing in for the real gateway.
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
