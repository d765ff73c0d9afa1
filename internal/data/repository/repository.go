package repository

import (
	"cinema-tickets/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User     UserRepository
	Movie    MovieRepository
	Hall     HallRepository
	Screen   ScreenRepository
	Showtime ShowtimeRepository
	Hold     HoldRepository
	Ledger   LedgerRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:     NewUserRepository(db, log),
		Movie:    NewMovieRepository(db, log),
		Hall:     NewHallRepository(db, log),
		Screen:   NewScreenRepository(db, log),
		Showtime: NewShowtimeRepository(db, log),
		Hold:     NewHoldRepository(db, log),
		Ledger:   NewLedgerRepository(db, log),
	}
}
