package adaptor

import (
	"errors"
	"net/http"

	"cinema-tickets/internal/data/entity"
	"cinema-tickets/internal/dto/response"
	"cinema-tickets/pkg/utils"

	"go.uber.org/zap"
)

// handleServiceError maps service errors onto the response envelope. Seat
// conflicts become 409 with the contested seats attached so clients can
// redraw their seat map.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	if conflict, ok := entity.IsSeatConflict(err); ok {
		log.Info(operation+" rejected on seat conflict",
			zap.String("reason", string(conflict.Reason)),
			zap.Strings("seats", conflict.Seats),
		)
		utils.ResponseConflict(w, err.Error(), response.ConflictToResponse(conflict))
		return
	}

	switch {
	case errors.Is(err, entity.ErrNotFound):
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, entity.ErrInvalidSelection):
		log.Warn(operation+" failed on invalid input", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, entity.ErrUnauthenticated):
		utils.ResponseUnauthorized(w, "Invalid credentials")

	case errors.Is(err, entity.ErrOverlappingShowtime):
		log.Warn(operation+" rejected on overlap", zap.Error(err))
		utils.ResponseConflict(w, err.Error(), nil)

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
