package usecase

import (
	"context"
	"fmt"
	"time"

	"cinema-tickets/internal/data/entity"
	"cinema-tickets/internal/data/repository"
	"cinema-tickets/internal/dto/request"
	"cinema-tickets/internal/dto/response"
	"cinema-tickets/pkg/utils"

	"go.uber.org/zap"
)

// CatalogService manages the static side of the system: movies, halls,
// screens with their seat layouts, and showtimes.
type CatalogService interface {
	CreateMovie(ctx context.Context, req *request.CreateMovieRequest) (*response.MovieResponse, error)
	GetMovie(ctx context.Context, movieID string) (*response.MovieResponse, error)
	ListMovies(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.MovieResponse], error)
	UpdateMovie(ctx context.Context, movieID string, req *request.UpdateMovieRequest) (*response.MovieResponse, error)
	DeleteMovie(ctx context.Context, movieID string) error

	CreateHall(ctx context.Context, req *request.CreateHallRequest) (*response.HallResponse, error)
	ListHalls(ctx context.Context) ([]response.HallResponse, error)

	CreateScreen(ctx context.Context, req *request.CreateScreenRequest) (*response.ScreenResponse, error)
	GetScreen(ctx context.Context, screenID string) (*response.ScreenResponse, error)
	ReplaceScreenLayout(ctx context.Context, screenID string, req *request.ReplaceLayoutRequest) (*response.ScreenResponse, error)

	CreateShowtime(ctx context.Context, req *request.CreateShowtimeRequest) (*response.ShowtimeResponse, error)
	GetShowtime(ctx context.Context, showtimeID string) (*response.ShowtimeResponse, error)
	ListShowtimesByMovie(ctx context.Context, movieID string) ([]response.ShowtimeResponse, error)
	ListUpcomingShowtimes(ctx context.Context) ([]response.ShowtimeResponse, error)
	DeleteShowtime(ctx context.Context, showtimeID string) error
}

type catalogService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCatalogService(repo *repository.Repository, log *zap.Logger) CatalogService {
	return &catalogService{
		repo: repo,
		log:  log.With(zap.String("service", "catalog")),
	}
}

// ---------------- Movies ----------------

func (s *catalogService) CreateMovie(ctx context.Context, req *request.CreateMovieRequest) (*response.MovieResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s: %w", utils.FormatValidationErrors(errs), entity.ErrInvalidSelection)
	}

	now := time.Now()
	movie := &entity.Movie{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Genres:          req.Genres,
		PosterURL:       req.PosterURL,
		Rating:          req.Rating,
		Status:          entity.MovieStatus(req.Status),
	}

	if req.ReleaseDate != nil {
		released, err := time.Parse("2006-01-02", *req.ReleaseDate)
		if err != nil {
			return nil, fmt.Errorf("invalid release date %s: %w", *req.ReleaseDate, entity.ErrInvalidSelection)
		}
		movie.ReleaseDate = &released
	}

	if err := s.repo.Movie.Create(ctx, movie); err != nil {
		return nil, err
	}

	s.log.Info("Movie created",
		zap.String("movie_id", movie.ID.String()),
		zap.String("title", movie.Title),
	)

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *catalogService) GetMovie(ctx context.Context, movieID string) (*response.MovieResponse, error) {
	id, err := utils.ParseUUID(movieID)
	if err != nil {
		return nil, fmt.Errorf("invalid movie ID %s: %w", movieID, entity.ErrInvalidSelection)
	}

	movie, err := s.repo.Movie.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, entity.ErrNotFound
	}

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *catalogService) ListMovies(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.MovieResponse], error) {
	movies, err := s.repo.Movie.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Movie.Count(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]response.MovieResponse, 0, len(movies))
	for _, movie := range movies {
		items = append(items, response.MovieToResponse(movie))
	}

	return response.NewPaginatedResponse(items, req.Page, req.PerPage, total), nil
}

func (s *catalogService) UpdateMovie(ctx context.Context, movieID string, req *request.UpdateMovieRequest) (*response.MovieResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s: %w", utils.FormatValidationErrors(errs), entity.ErrInvalidSelection)
	}

	id, err := utils.ParseUUID(movieID)
	if err != nil {
		return nil, fmt.Errorf("invalid movie ID %s: %w", movieID, entity.ErrInvalidSelection)
	}

	movie, err := s.repo.Movie.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, entity.ErrNotFound
	}

	if req.Title != nil {
		movie.Title = *req.Title
	}
	if req.Description != nil {
		movie.Description = *req.Description
	}
	if req.DurationMinutes != nil {
		movie.DurationMinutes = *req.DurationMinutes
	}
	if req.Genres != nil {
		movie.Genres = req.Genres
	}
	if req.PosterURL != nil {
		movie.PosterURL = req.PosterURL
	}
	if req.Rating != nil {
		movie.Rating = req.Rating
	}
	if req.Status != nil {
		movie.Status = entity.MovieStatus(*req.Status)
	}
	movie.UpdatedAt = time.Now()

	if err := s.repo.Movie.Update(ctx, movie); err != nil {
		return nil, err
	}

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *catalogService) DeleteMovie(ctx context.Context, movieID string) error {
	id, err := utils.ParseUUID(movieID)
	if err != nil {
		return fmt.Errorf("invalid movie ID %s: %w", movieID, entity.ErrInvalidSelection)
	}
	return s.repo.Movie.Delete(ctx, id)
}

// ---------------- Halls ----------------

func (s *catalogService) CreateHall(ctx context.Context, req *request.CreateHallRequest) (*response.HallResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s: %w", utils.FormatValidationErrors(errs), entity.ErrInvalidSelection)
	}

	now := time.Now()
	hall := &entity.Hall{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        req.Name,
		Address:     req.Address,
		Description: req.Description,
	}

	if err := s.repo.Hall.Create(ctx, hall); err != nil {
		return nil, err
	}

	resp := response.HallToResponse(hall)
	return &resp, nil
}

func (s *catalogService) ListHalls(ctx context.Context) ([]response.HallResponse, error) {
	halls, err := s.repo.Hall.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]response.HallResponse, 0, len(halls))
	for _, hall := range halls {
		items = append(items, response.HallToResponse(hall))
	}
	return items, nil
}

// ---------------- Screens ----------------

func (s *catalogService) CreateScreen(ctx context.Context, req *request.CreateScreenRequest) (*response.ScreenResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s: %w", utils.FormatValidationErrors(errs), entity.ErrInvalidSelection)
	}

	hallID, err := utils.ParseUUID(req.HallID)
	if err != nil {
		return nil, fmt.Errorf("invalid hall ID %s: %w", req.HallID, entity.ErrInvalidSelection)
	}

	hall, err := s.repo.Hall.FindByID(ctx, hallID)
	if err != nil {
		return nil, err
	}
	if hall == nil {
		return nil, fmt.Errorf("hall %s: %w", req.HallID, entity.ErrNotFound)
	}

	layout, err := layoutFromRequest(req.Layout)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	screen := &entity.Screen{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		HallID: hallID,
		Name:   req.Name,
		Layout: layout,
	}

	if err := s.repo.Screen.Create(ctx, screen); err != nil {
		return nil, err
	}

	s.log.Info("Screen created",
		zap.String("screen_id", screen.ID.String()),
		zap.String("hall_id", hallID.String()),
		zap.Int("seats", len(layout)),
	)

	resp := response.ScreenToResponse(screen)
	return &resp, nil
}

// layoutFromRequest rejects duplicate seat names before the storage
// constraint would.
func layoutFromRequest(seats []request.SeatDefinitionRequest) ([]entity.SeatDefinition, error) {
	seen := make(map[string]bool, len(seats))
	layout := make([]entity.SeatDefinition, 0, len(seats))
	for _, seat := range seats {
		if seen[seat.SeatName] {
			return nil, fmt.Errorf("duplicate seat %s in layout: %w", seat.SeatName, entity.ErrInvalidSelection)
		}
		seen[seat.SeatName] = true
		layout = append(layout, entity.SeatDefinition{
			SeatName:   seat.SeatName,
			Class:      entity.SeatClass(seat.Class),
			PriceCents: seat.PriceCents,
		})
	}
	return layout, nil
}

func (s *catalogService) GetScreen(ctx context.Context, screenID string) (*response.ScreenResponse, error) {
	id, err := utils.ParseUUID(screenID)
	if err != nil {
		return nil, fmt.Errorf("invalid screen ID %s: %w", screenID, entity.ErrInvalidSelection)
	}

	screen, err := s.repo.Screen.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if screen == nil {
		return nil, entity.ErrNotFound
	}

	resp := response.ScreenToResponse(screen)
	return &resp, nil
}

func (s *catalogService) ReplaceScreenLayout(ctx context.Context, screenID string, req *request.ReplaceLayoutRequest) (*response.ScreenResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s: %w", utils.FormatValidationErrors(errs), entity.ErrInvalidSelection)
	}

	id, err := utils.ParseUUID(screenID)
	if err != nil {
		return nil, fmt.Errorf("invalid screen ID %s: %w", screenID, entity.ErrInvalidSelection)
	}

	screen, err := s.repo.Screen.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if screen == nil {
		return nil, entity.ErrNotFound
	}

	layout, err := layoutFromRequest(req.Layout)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Screen.ReplaceLayout(ctx, id, layout); err != nil {
		return nil, err
	}

	screen.Layout = layout
	resp := response.ScreenToResponse(screen)
	return &resp, nil
}

// ---------------- Showtimes ----------------

func (s *catalogService) CreateShowtime(ctx context.Context, req *request.CreateShowtimeRequest) (*response.ShowtimeResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s: %w", utils.FormatValidationErrors(errs), entity.ErrInvalidSelection)
	}

	movieID, err := utils.ParseUUID(req.MovieID)
	if err != nil {
		return nil, fmt.Errorf("invalid movie ID %s: %w", req.MovieID, entity.ErrInvalidSelection)
	}
	screenID, err := utils.ParseUUID(req.ScreenID)
	if err != nil {
		return nil, fmt.Errorf("invalid screen ID %s: %w", req.ScreenID, entity.ErrInvalidSelection)
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid start time %s: %w", req.StartTime, entity.ErrInvalidSelection)
	}
	endTime, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("invalid end time %s: %w", req.EndTime, entity.ErrInvalidSelection)
	}
	if !endTime.After(startTime) {
		return nil, fmt.Errorf("end time must be after start time: %w", entity.ErrInvalidSelection)
	}

	movie, err := s.repo.Movie.FindByID(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, fmt.Errorf("movie %s: %w", req.MovieID, entity.ErrNotFound)
	}

	screen, err := s.repo.Screen.FindByID(ctx, screenID)
	if err != nil {
		return nil, err
	}
	if screen == nil {
		return nil, fmt.Errorf("screen %s: %w", req.ScreenID, entity.ErrNotFound)
	}

	now := time.Now()
	showtime := &entity.Showtime{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		MovieID:   movieID,
		HallID:    screen.HallID,
		ScreenID:  screenID,
		StartTime: startTime,
		EndTime:   endTime,
	}

	if err := s.repo.Showtime.Create(ctx, showtime); err != nil {
		return nil, err
	}

	s.log.Info("Showtime created",
		zap.String("showtime_id", showtime.ID.String()),
		zap.String("screen_id", screenID.String()),
		zap.Time("start_time", startTime),
	)

	resp := response.ShowtimeToResponse(showtime)
	return &resp, nil
}

func (s *catalogService) GetShowtime(ctx context.Context, showtimeID string) (*response.ShowtimeResponse, error) {
	id, err := utils.ParseUUID(showtimeID)
	if err != nil {
		return nil, fmt.Errorf("invalid showtime ID %s: %w", showtimeID, entity.ErrInvalidSelection)
	}

	showtime, err := s.repo.Showtime.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if showtime == nil {
		return nil, entity.ErrNotFound
	}

	resp := response.ShowtimeToResponse(showtime)
	return &resp, nil
}

func (s *catalogService) ListShowtimesByMovie(ctx context.Context, movieID string) ([]response.ShowtimeResponse, error) {
	id, err := utils.ParseUUID(movieID)
	if err != nil {
		return nil, fmt.Errorf("invalid movie ID %s: %w", movieID, entity.ErrInvalidSelection)
	}

	showtimes, err := s.repo.Showtime.FindByMovieID(ctx, id)
	if err != nil {
		return nil, err
	}

	items := make([]response.ShowtimeResponse, 0, len(showtimes))
	for _, showtime := range showtimes {
		items = append(items, response.ShowtimeToResponse(showtime))
	}
	return items, nil
}

func (s *catalogService) ListUpcomingShowtimes(ctx context.Context) ([]response.ShowtimeResponse, error) {
	showtimes, err := s.repo.Showtime.FindFrom(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	items := make([]response.ShowtimeResponse, 0, len(showtimes))
	for _, showtime := range showtimes {
		items = append(items, response.ShowtimeToResponse(showtime))
	}
	return items, nil
}

func (s *catalogService) DeleteShowtime(ctx context.Context, showtimeID string) error {
	id, err := utils.ParseUUID(showtimeID)
	if err != nil {
		return fmt.Errorf("invalid showtime ID %s: %w", showtimeID, entity.ErrInvalidSelection)
	}
	return s.repo.Showtime.Delete(ctx, id)
}
