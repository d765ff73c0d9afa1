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

type CatalogHandler struct {
	service usecase.CatalogService
	log     *zap.Logger
}

func NewCatalogHandler(service usecase.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		log:     log.With(zap.String("handler", "catalog")),
	}
}

// ==================== MOVIES ====================

// CreateMovie handles POST /api/admin/movies (admin)
func (h *CatalogHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var req request.CreateMovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	movie, err := h.service.CreateMovie(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create movie")
		return
	}

	utils.ResponseCreated(w, "success", movie)
}

// GetMovie handles GET /api/movies/{id} (public)
func (h *CatalogHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	movie, err := h.service.GetMovie(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get movie")
		return
	}

	utils.ResponseSuccess(w, "success", movie)
}

// ListMovies handles GET /api/movies (public)
func (h *CatalogHandler) ListMovies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	movies, err := h.service.ListMovies(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list movies")
		return
	}

	utils.ResponseSuccess(w, "success", movies)
}

// UpdateMovie handles PUT /api/admin/movies/{id} (admin)
func (h *CatalogHandler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateMovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	movie, err := h.service.UpdateMovie(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update movie")
		return
	}

	utils.ResponseSuccess(w, "success", movie)
}

// DeleteMovie handles DELETE /api/admin/movies/{id} (admin)
func (h *CatalogHandler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteMovie(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete movie")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// ==================== HALLS ====================

// CreateHall handles POST /api/admin/halls (admin)
func (h *CatalogHandler) CreateHall(w http.ResponseWriter, r *http.Request) {
	var req request.CreateHallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	hall, err := h.service.CreateHall(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create hall")
		return
	}

	utils.ResponseCreated(w, "success", hall)
}

// ListHalls handles GET /api/halls (public)
func (h *CatalogHandler) ListHalls(w http.ResponseWriter, r *http.Request) {
	halls, err := h.service.ListHalls(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list halls")
		return
	}

	utils.ResponseSuccess(w, "success", halls)
}

// ==================== SCREENS ====================

// CreateScreen handles POST /api/admin/screens (admin)
func (h *CatalogHandler) CreateScreen(w http.ResponseWriter, r *http.Request) {
	var req request.CreateScreenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	screen, err := h.service.CreateScreen(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create screen")
		return
	}

	utils.ResponseCreated(w, "success", screen)
}

// GetScreen handles GET /api/screens/{id} (public)
func (h *CatalogHandler) GetScreen(w http.ResponseWriter, r *http.Request) {
	screen, err := h.service.GetScreen(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get screen")
		return
	}

	utils.ResponseSuccess(w, "success", screen)
}

// ReplaceScreenLayout handles PUT /api/admin/screens/{id}/layout (admin)
func (h *CatalogHandler) ReplaceScreenLayout(w http.ResponseWriter, r *http.Request) {
	var req request.ReplaceLayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	screen, err := h.service.ReplaceScreenLayout(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "replace screen layout")
		return
	}

	utils.ResponseSuccess(w, "success", screen)
}

// ==================== SHOWTIMES ====================

// CreateShowtime handles POST /api/admin/showtimes (admin)
func (h *CatalogHandler) CreateShowtime(w http.ResponseWriter, r *http.Request) {
	var req request.CreateShowtimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	showtime, err := h.service.CreateShowtime(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create showtime")
		return
	}

	utils.ResponseCreated(w, "success", showtime)
}

// GetShowtime handles GET /api/showtimes/{id} (public)
func (h *CatalogHandler) GetShowtime(w http.ResponseWriter, r *http.Request) {
	showtime, err := h.service.GetShowtime(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get showtime")
		return
	}

	utils.ResponseSuccess(w, "success", showtime)
}

// ListShowtimes handles GET /api/showtimes (public). With ?movie_id= the
// listing narrows to one movie, otherwise it returns everything upcoming.
func (h *CatalogHandler) ListShowtimes(w http.ResponseWriter, r *http.Request) {
	movieID := r.URL.Query().Get("movie_id")

	var err error
	var showtimes any
	if movieID != "" {
		showtimes, err = h.service.ListShowtimesByMovie(r.Context(), movieID)
	} else {
		showtimes, err = h.service.ListUpcomingShowtimes(r.Context())
	}
	if err != nil {
		handleServiceError(w, h.log, err, "list showtimes")
		return
	}

	utils.ResponseSuccess(w, "success", showtimes)
}

// DeleteShowtime handles DELETE /api/admin/showtimes/{id} (admin)
func (h *CatalogHandler) DeleteShowtime(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteShowtime(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete showtime")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
