package request

type CreateMovieRequest struct {
	Title           string   `json:"title" validate:"required,min=1,max=200"`
	Description     string   `json:"description" validate:"required"`
	DurationMinutes int      `json:"duration_minutes" validate:"required,min=1,max=600"`
	ReleaseDate     *string  `json:"release_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Genres          []string `json:"genres" validate:"omitempty,dive,min=1"`
	PosterURL       *string  `json:"poster_url,omitempty" validate:"omitempty,url"`
	Rating          *float64 `json:"rating,omitempty" validate:"omitempty,min=0,max=10"`
	Status          string   `json:"status" validate:"required,oneof=now-showing upcoming"`
}

type UpdateMovieRequest struct {
	Title           *string  `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description     *string  `json:"description,omitempty"`
	DurationMinutes *int     `json:"duration_minutes,omitempty" validate:"omitempty,min=1,max=600"`
	Genres          []string `json:"genres,omitempty" validate:"omitempty,dive,min=1"`
	PosterURL       *string  `json:"poster_url,omitempty" validate:"omitempty,url"`
	Rating          *float64 `json:"rating,omitempty" validate:"omitempty,min=0,max=10"`
	Status          *string  `json:"status,omitempty" validate:"omitempty,oneof=now-showing upcoming"`
}

type CreateHallRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Address     string  `json:"address" validate:"required"`
	Description *string `json:"description,omitempty"`
}

type SeatDefinitionRequest struct {
	SeatName   string `json:"seat_name" validate:"required,min=2,max=5"`
	Class      string `json:"class" validate:"required,oneof=regular premium vip"`
	PriceCents int64  `json:"price_cents" validate:"required,min=1"`
}

type CreateScreenRequest struct {
	HallID string                  `json:"hall_id" validate:"required,uuid4"`
	Name   string                  `json:"name" validate:"required,min=1,max=50"`
	Layout []SeatDefinitionRequest `json:"layout" validate:"required,min=1,dive"`
}

type ReplaceLayoutRequest struct {
	Layout []SeatDefinitionRequest `json:"layout" validate:"required,min=1,dive"`
}

type CreateShowtimeRequest struct {
	MovieID   string `json:"movie_id" validate:"required,uuid4"`
	ScreenID  string `json:"screen_id" validate:"required,uuid4"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}
