package adaptor

import (
	"encoding/json"
	"io"
	"net/http"

	"cinema-tickets/internal/dto/request"
	"cinema-tickets/internal/payment"
	"cinema-tickets/internal/usecase"
	"cinema-tickets/pkg/utils"

	"go.uber.org/zap"
)

// signatureHeader carries the gateway's HMAC over the raw webhook body.
const signatureHeader = "X-Webhook-Signature"

const maxWebhookBody = 1 << 20 // 1 MiB

type PaymentHandler struct {
	service usecase.BookingService
	gateway payment.Gateway
	log     *zap.Logger
}

func NewPaymentHandler(service usecase.BookingService, gateway payment.Gateway, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		gateway: gateway,
		log:     log.With(zap.String("handler", "payment")),
	}
}

// CreateIntent handles POST /api/payment/create-intent (protected)
func (h *PaymentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreatePaymentIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	intent, err := h.service.CreatePaymentIntent(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create payment intent")
		return
	}

	utils.ResponseCreated(w, "success", intent)
}

// Webhook handles POST /api/payment/webhook (gateway only). The signature is
// checked over the raw body before anything is decoded.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		utils.ResponseBadRequest(w, "Failed to read request body", nil)
		return
	}

	signature := r.Header.Get(signatureHeader)
	if signature == "" || !h.gateway.VerifySignature(body, signature) {
		h.log.Warn("Webhook with missing or bad signature",
			zap.String("ip", r.RemoteAddr),
		)
		utils.ResponseUnauthorized(w, "Invalid webhook signature")
		return
	}

	var event request.PaymentWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		utils.ResponseBadRequest(w, "Invalid event payload", nil)
		return
	}

	booking, err := h.service.HandlePaymentEvent(r.Context(), &event)
	if err != nil {
		handleServiceError(w, h.log, err, "handle payment event")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}
