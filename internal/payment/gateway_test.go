package payment

import (
	"strings"
	"testing"

	"cinema-tickets/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testGateway() Gateway {
	return NewGateway(utils.PaymentConfig{
		WebhookSecret: "whsec_test",
		Currency:      "usd",
	}, zap.NewNop())
}

func TestCreateIntentCarriesMetadata(t *testing.T) {
	g := testGateway()

	intent, err := g.CreateIntent("user-1", "showtime-1", []string{"A1", "B2"}, 3000)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(intent.ID, "pi_"))
	assert.Equal(t, int64(3000), intent.AmountCents)
	assert.Equal(t, "usd", intent.Currency)
	assert.Equal(t, "user-1", intent.UserID)
	assert.Equal(t, "showtime-1", intent.ShowtimeID)
	assert.Equal(t, []string{"A1", "B2"}, intent.Seats)
}

func TestVerifySignatureRoundTrip(t *testing.T) {
	g := testGateway()
	payload := []byte(`{"type":"payment_intent.succeeded","data":{"intent_id":"pi_1"}}`)

	sig := Sign(payload, "whsec_test")
	assert.True(t, g.VerifySignature(payload, sig))
}

func TestVerifySignatureRejectsTampering(t *testing.T) {
	g := testGateway()
	payload := []byte(`{"type":"payment_intent.succeeded","data":{"amount_cents":1200}}`)
	sig := Sign(payload, "whsec_test")

	tampered := []byte(`{"type":"payment_intent.succeeded","data":{"amount_cents":1}}`)
	assert.False(t, g.VerifySignature(tampered, sig))
	assert.False(t, g.VerifySignature(payload, sig+"00"))
	assert.False(t, g.VerifySignature(payload, ""))
}

func TestVerifySignatureWrongSecret(t *testing.T) {
	g := testGateway()
	payload := []byte(`{"type":"payment_intent.succeeded"}`)

	sig := Sign(payload, "whsec_other")
	assert.False(t, g.VerifySignature(payload, sig))
}
