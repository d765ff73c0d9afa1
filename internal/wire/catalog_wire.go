package wire

import (
	"cinema-tickets/internal/adaptor"
	"cinema-tickets/pkg/middleware"
	"cinema-tickets/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCatalog(r chi.Router, catalogHandler *adaptor.CatalogHandler, config *utils.Config, log *zap.Logger) {
	// Public browsing
	r.Get("/api/movies", catalogHandler.ListMovies)
	r.Get("/api/movies/{id}", catalogHandler.GetMovie)
	r.Get("/api/halls", catalogHandler.ListHalls)
	r.Get("/api/screens/{id}", catalogHandler.GetScreen)
	r.Get("/api/showtimes", catalogHandler.ListShowtimes)
	r.Get("/api/showtimes/{id}", catalogHandler.GetShowtime)

	// Admin catalog management
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT.Secret, log))
		r.Use(middleware.Admin(log))

		r.Post("/api/admin/movies", catalogHandler.CreateMovie)
		r.Put("/api/admin/movies/{id}", catalogHandler.UpdateMovie)
		r.Delete("/api/admin/movies/{id}", catalogHandler.DeleteMovie)

		r.Post("/api/admin/halls", catalogHandler.CreateHall)

		r.Post("/api/admin/screens", catalogHandler.CreateScreen)
		r.Put("/api/admin/screens/{id}/layout", catalogHandler.ReplaceScreenLayout)

		r.Post("/api/admin/showtimes", catalogHandler.CreateShowtime)
		r.Delete("/api/admin/showtimes/{id}", catalogHandler.DeleteShowtime)
	})
}
