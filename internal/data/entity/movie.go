package entity

import "time"

type MovieStatus string

const (
	MovieStatusNowShowing MovieStatus = "now-showing"
	MovieStatusUpcoming   MovieStatus = "upcoming"
)

type Movie struct {
	Base
	Title           string      `db:"title"`
	Description     string      `db:"description"`
	DurationMinutes int         `db:"duration_minutes"`
	ReleaseDate     *time.Time  `db:"release_date"`
	Genres          []string    `db:"genres"`
	PosterURL       *string     `db:"poster_url"`
	Rating          *float64    `db:"rating"`
	Status          MovieStatus `db:"status"`
}
