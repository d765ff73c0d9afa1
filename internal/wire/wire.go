package wire

import (
	"net/http"

	"cinema-tickets/internal/adaptor"
	"cinema-tickets/internal/data/repository"
	"cinema-tickets/internal/notifier"
	"cinema-tickets/internal/payment"
	"cinema-tickets/internal/usecase"
	"cinema-tickets/pkg/middleware"
	"cinema-tickets/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type App struct {
	Router *chi.Mux
}

// Wiring builds the service and handler graph and mounts all routes.
func Wiring(
	repo *repository.Repository,
	config *utils.Config,
	cache usecase.AvailabilityCache,
	gateway payment.Gateway,
	notify notifier.Notifier,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, config, cache, gateway, notify, logger)
	handler := adaptor.NewHandler(service, gateway, logger)

	router := setupRouter(handler, config, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(handler *adaptor.Handler, config *utils.Config, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS)

	wireAuth(r, handler.Auth)
	wireCatalog(r, handler.Catalog, config, logger)
	wireReservation(r, handler.Reservation, config, logger)
	wireBooking(r, handler.Booking, config, logger)
	wirePayment(r, handler.Payment, config, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
