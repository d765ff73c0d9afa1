package repository

import (
	"context"
	"fmt"
	"time"

	"cinema-tickets/internal/data/entity"
	"cinema-tickets/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ShowtimeRepository interface {
	// Create inserts the showtime, failing with entity.ErrOverlappingShowtime
	// when another showtime on the same screen overlaps [StartTime, EndTime).
	Create(ctx context.Context, showtime *entity.Showtime) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Showtime, error)
	FindByMovieID(ctx context.Context, movieID uuid.UUID) ([]*entity.Showtime, error)
	FindFrom(ctx context.Context, from time.Time) ([]*entity.Showtime, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type showtimeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewShowtimeRepository(db database.PgxIface, log *zap.Logger) ShowtimeRepository {
	return &showtimeRepository{
		db:  db,
		log: log.With(zap.String("repository", "showtime")),
	}
}

func (r *showtimeRepository) Create(ctx context.Context, showtime *entity.Showtime) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin showtime tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// Overlap precondition: existing.start < new.end AND existing.end > new.start.
	var overlapping int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM showtimes
		 WHERE screen_id = $1 AND start_time < $2 AND end_time > $3`,
		showtime.ScreenID, showtime.EndTime, showtime.StartTime,
	).Scan(&overlapping)
	if err != nil {
		return fmt.Errorf("check overlapping showtimes for screen %s: %w", showtime.ScreenID.String(), err)
	}
	if overlapping > 0 {
		return entity.ErrOverlappingShowtime
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO showtimes (id, movie_id, hall_id, screen_id, start_time, end_time, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		showtime.ID,
		showtime.MovieID,
		showtime.HallID,
		showtime.ScreenID,
		showtime.StartTime,
		showtime.EndTime,
		showtime.CreatedAt,
		showtime.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create showtime",
			zap.Error(err),
			zap.String("movie_id", showtime.MovieID.String()),
			zap.String("screen_id", showtime.ScreenID.String()),
		)
		return fmt.Errorf("create showtime for movie %s screen %s: %w",
			showtime.MovieID.String(), showtime.ScreenID.String(), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit showtime tx: %w", err)
	}
	return nil
}

func (r *showtimeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Showtime, error) {
	query := `
		SELECT id, movie_id, hall_id, screen_id, start_time, end_time, created_at, updated_at
		FROM showtimes
		WHERE id = $1
	`

	var showtime entity.Showtime
	err := r.db.QueryRow(ctx, query, id).Scan(
		&showtime.ID,
		&showtime.MovieID,
		&showtime.HallID,
		&showtime.ScreenID,
		&showtime.StartTime,
		&showtime.EndTime,
		&showtime.CreatedAt,
		&showtime.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find showtime by ID",
			zap.Error(err),
			zap.String("showtime_id", id.String()),
		)
		return nil, fmt.Errorf("find showtime by ID %s: %w", id.String(), err)
	}

	return &showtime, nil
}

func (r *showtimeRepository) FindByMovieID(ctx context.Context, movieID uuid.UUID) ([]*entity.Showtime, error) {
	query := `
		SELECT id, movie_id, hall_id, screen_id, start_time, end_time, created_at, updated_at
		FROM showtimes
		WHERE movie_id = $1
		ORDER BY start_time
	`

	rows, err := r.db.Query(ctx, query, movieID)
	if err != nil {
		r.log.Error("Failed to find showtimes by movie ID",
			zap.Error(err),
			zap.String("movie_id", movieID.String()),
		)
		return nil, fmt.Errorf("find showtimes by movie ID %s: %w", movieID.String(), err)
	}
	defer rows.Close()

	return scanShowtimes(rows)
}

func (r *showtimeRepository) FindFrom(ctx context.Context, from time.Time) ([]*entity.Showtime, error) {
	query := `
		SELECT id, movie_id, hall_id, screen_id, start_time, end_time, created_at, updated_at
		FROM showtimes
		WHERE start_time >= $1
		ORDER BY start_time
	`

	rows, err := r.db.Query(ctx, query, from)
	if err != nil {
		r.log.Error("Failed to list showtimes", zap.Error(err))
		return nil, fmt.Errorf("list showtimes from %s: %w", from.Format(time.RFC3339), err)
	}
	defer rows.Close()

	return scanShowtimes(rows)
}

func (r *showtimeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM showtimes WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete showtime",
			zap.Error(err),
			zap.String("showtime_id", id.String()),
		)
		return fmt.Errorf("delete showtime %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func scanShowtimes(rows pgx.Rows) ([]*entity.Showtime, error) {
	var showtimes []*entity.Showtime
	for rows.Next() {
		var showtime entity.Showtime
		err := rows.Scan(
			&showtime.ID,
			&showtime.MovieID,
			&showtime.HallID,
			&showtime.ScreenID,
			&showtime.StartTime,
			&showtime.EndTime,
			&showtime.CreatedAt,
			&showtime.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan showtime row: %w", err)
		}
		showtimes = append(showtimes, &showtime)
	}
	return showtimes, rows.Err()
}
