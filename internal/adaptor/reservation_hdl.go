package adaptor

import (
	"encoding/json"
	"net/http"

	"cinema-tickets/internal/dto/request"
	"cinema-tickets/internal/usecase"
	"cinema-tickets/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReservationHandler struct {
	service      usecase.ReservationService
	availability usecase.AvailabilityService
	log          *zap.Logger
}

func NewReservationHandler(service usecase.ReservationService, availability usecase.AvailabilityService, log *zap.Logger) *ReservationHandler {
	return &ReservationHandler{
		service:      service,
		availability: availability,
		log:          log.With(zap.String("handler", "reservation")),
	}
}

// Reserve handles POST /api/seats/reserve (protected)
func (h *ReservationHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.ReserveSeatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	hold, err := h.service.Reserve(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "reserve seats")
		return
	}

	utils.ResponseCreated(w, "success", hold)
}

// Release handles POST /api/seats/release (protected). Releasing a hold that
// does not exist still succeeds.
func (h *ReservationHandler) Release(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.ReleaseSeatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	if err := h.service.Release(r.Context(), userID, &req); err != nil {
		handleServiceError(w, h.log, err, "release seats")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// GetActiveHold handles GET /api/showtimes/{id}/hold (protected)
func (h *ReservationHandler) GetActiveHold(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	hold, err := h.service.ActiveHold(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get active hold")
		return
	}

	utils.ResponseSuccess(w, "success", hold)
}

// GetSeatMap handles GET /api/showtimes/{id}/seats (public, personalized when
// a valid token is sent)
func (h *ReservationHandler) GetSeatMap(w http.ResponseWriter, r *http.Request) {
	// Anonymous callers get uuid.Nil and never see held_by_you.
	userID, _ := utils.GetUserIDFromContext(r.Context())

	seatMap, err := h.availability.GetSeatMap(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get seat map")
		return
	}

	utils.ResponseSuccess(w, "success", seatMap)
}
