package response

import (
	"time"

	"cinema-tickets/internal/data/entity"
)

type MovieResponse struct {
	ID              string             `json:"id"`
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	DurationMinutes int                `json:"duration_minutes"`
	ReleaseDate     *time.Time         `json:"release_date,omitempty"`
	Genres          []string           `json:"genres,omitempty"`
	PosterURL       *string            `json:"poster_url,omitempty"`
	Rating          *float64           `json:"rating,omitempty"`
	Status          entity.MovieStatus `json:"status"`
	CreatedAt       time.Time          `json:"created_at"`
}

type HallResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	Description *string `json:"description,omitempty"`
}

type SeatDefinitionResponse struct {
	SeatName   string           `json:"seat_name"`
	Class      entity.SeatClass `json:"class"`
	PriceCents int64            `json:"price_cents"`
}

type ScreenResponse struct {
	ID     string                   `json:"id"`
	HallID string                   `json:"hall_id"`
	Name   string                   `json:"name"`
	Layout []SeatDefinitionResponse `json:"layout,omitempty"`
}

type ShowtimeResponse struct {
	ID        string    `json:"id"`
	MovieID   string    `json:"movie_id"`
	HallID    string    `json:"hall_id"`
	ScreenID  string    `json:"screen_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// Helper converters
func MovieToResponse(movie *entity.Movie) MovieResponse {
	return MovieResponse{
		ID:              movie.ID.String(),
		Title:           movie.Title,
		Description:     movie.Description,
		DurationMinutes: movie.DurationMinutes,
		ReleaseDate:     movie.ReleaseDate,
		Genres:          movie.Genres,
		PosterURL:       movie.PosterURL,
		Rating:          movie.Rating,
		Status:          movie.Status,
		CreatedAt:       movie.CreatedAt,
	}
}

func HallToResponse(hall *entity.Hall) HallResponse {
	return HallResponse{
		ID:          hall.ID.String(),
		Name:        hall.Name,
		Address:     hall.Address,
		Description: hall.Description,
	}
}

func ScreenToResponse(screen *entity.Screen) ScreenResponse {
	resp := ScreenResponse{
		ID:     screen.ID.String(),
		HallID: screen.HallID.String(),
		Name:   screen.Name,
	}
	for _, seat := range screen.Layout {
		resp.Layout = append(resp.Layout, SeatDefinitionResponse{
			SeatName:   seat.SeatName,
			Class:      seat.Class,
			PriceCents: seat.PriceCents,
		})
	}
	return resp
}

func ShowtimeToResponse(showtime *entity.Showtime) ShowtimeResponse {
	return ShowtimeResponse{
		ID:        showtime.ID.String(),
		MovieID:   showtime.MovieID.String(),
		HallID:    showtime.HallID.String(),
		ScreenID:  showtime.ScreenID.String(),
		StartTime: showtime.StartTime,
		EndTime:   showtime.EndTime,
	}
}
