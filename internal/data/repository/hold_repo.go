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

// HoldRepository is the reservation store: temporary per-seat claims with an
// expiry. Grant is the concurrency-critical operation; everything else is
// plain reads and idempotent deletes.
type HoldRepository interface {
	// Grant atomically replaces the user's hold on a showtime with the given
	// seat set. It fails with *entity.SeatConflictError when any seat is
	// already sold or actively held by another user. The check-then-insert
	// sequence runs in one transaction; the UNIQUE(showtime_id, seat_name)
	// constraint decides races that slip past the read.
	Grant(ctx context.Context, showtimeID, userID uuid.UUID, seatNames []string, expiresAt, now time.Time) error

	// Release deletes the user's hold rows for a showtime. No-op when absent.
	Release(ctx context.Context, showtimeID, userID uuid.UUID) error

	// FindActiveByShowtime returns all non-expired hold rows for a showtime.
	FindActiveByShowtime(ctx context.Context, showtimeID uuid.UUID, now time.Time) ([]*entity.SeatHold, error)

	// FindActiveByUser returns the user's non-expired hold rows for a showtime.
	FindActiveByUser(ctx context.Context, showtimeID, userID uuid.UUID, now time.Time) ([]*entity.SeatHold, error)

	// DeleteExpired removes hold rows whose expiry has passed. Storage hygiene
	// only; reads already treat expired rows as absent.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type holdRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewHoldRepository(db database.PgxIface, log *zap.Logger) HoldRepository {
	return &holdRepository{
		db:  db,
		log: log.With(zap.String("repository", "hold")),
	}
}

func (r *holdRepository) Grant(ctx context.Context, showtimeID, userID uuid.UUID, seatNames []string, expiresAt, now time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin grant tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// Reclaim expired rows for this showtime so the uniqueness constraint
	// does not block a re-grant after expiry.
	_, err = tx.Exec(ctx,
		`DELETE FROM seat_holds WHERE showtime_id = $1 AND expires_at <= $2`,
		showtimeID, now,
	)
	if err != nil {
		return fmt.Errorf("reap expired holds for showtime %s: %w", showtimeID.String(), err)
	}

	// Sold seats block unconditionally.
	sold, err := r.conflictingSeats(ctx, tx,
		`SELECT seat_name FROM sold_seats WHERE showtime_id = $1 AND seat_name = ANY($2)`,
		showtimeID, seatNames,
	)
	if err != nil {
		return fmt.Errorf("check sold seats for showtime %s: %w", showtimeID.String(), err)
	}
	if len(sold) > 0 {
		return &entity.SeatConflictError{Reason: entity.ConflictSold, Seats: sold}
	}

	// Active holds by other users block too.
	held, err := r.conflictingSeats(ctx, tx,
		`SELECT seat_name FROM seat_holds
		 WHERE showtime_id = $1 AND seat_name = ANY($2) AND user_id <> $3 AND expires_at > $4`,
		showtimeID, seatNames, userID, now,
	)
	if err != nil {
		return fmt.Errorf("check held seats for showtime %s: %w", showtimeID.String(), err)
	}
	if len(held) > 0 {
		return &entity.SeatConflictError{Reason: entity.ConflictHeld, Seats: held}
	}

	// Replace, don't accumulate: a user keeps at most one hold per showtime.
	_, err = tx.Exec(ctx,
		`DELETE FROM seat_holds WHERE showtime_id = $1 AND user_id = $2`,
		showtimeID, userID,
	)
	if err != nil {
		return fmt.Errorf("replace own hold for showtime %s: %w", showtimeID.String(), err)
	}

	for _, seat := range seatNames {
		_, err = tx.Exec(ctx,
			`INSERT INTO seat_holds (showtime_id, seat_name, user_id, expires_at, created_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			showtimeID, seat, userID, expiresAt, now,
		)
		if err != nil {
			if isUniqueViolation(err, constraintHeldSeat) {
				// Lost the race to a concurrent grant. Report the overlap as
				// seen after the fact; fall back to the requested set if the
				// winner is already gone again.
				return r.lostGrantRace(ctx, showtimeID, userID, seatNames, now)
			}
			return fmt.Errorf("insert hold %s for showtime %s: %w", seat, showtimeID.String(), err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit grant tx: %w", err)
	}

	return nil
}

// lostGrantRace builds the SeatHeldByOther error for a grant that lost to a
// concurrent insert, re-reading outside the aborted transaction to name the
// conflicting seats.
func (r *holdRepository) lostGrantRace(ctx context.Context, showtimeID, userID uuid.UUID, seatNames []string, now time.Time) error {
	held, err := r.conflictingSeats(ctx, r.db,
		`SELECT seat_name FROM seat_holds
		 WHERE showtime_id = $1 AND seat_name = ANY($2) AND user_id <> $3 AND expires_at > $4`,
		showtimeID, seatNames, userID, now,
	)
	if err != nil || len(held) == 0 {
		held = seatNames
	}
	return &entity.SeatConflictError{Reason: entity.ConflictHeld, Seats: held}
}

// querier abstracts the Query method shared by the pool wrapper and pgx.Tx so
// conflict reads can run inside or outside a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *holdRepository) conflictingSeats(ctx context.Context, q querier, sql string, args ...any) ([]string, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seats []string
	for rows.Next() {
		var seat string
		if err := rows.Scan(&seat); err != nil {
			return nil, fmt.Errorf("scan seat name: %w", err)
		}
		seats = append(seats, seat)
	}
	return seats, rows.Err()
}

func (r *holdRepository) Release(ctx context.Context, showtimeID, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM seat_holds WHERE showtime_id = $1 AND user_id = $2`,
		showtimeID, userID,
	)
	if err != nil {
		r.log.Error("Failed to release hold",
			zap.Error(err),
			zap.String("showtime_id", showtimeID.String()),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("release hold for showtime %s: %w", showtimeID.String(), err)
	}
	return nil
}

func (r *holdRepository) FindActiveByShowtime(ctx context.Context, showtimeID uuid.UUID, now time.Time) ([]*entity.SeatHold, error) {
	query := `
		SELECT showtime_id, seat_name, user_id, expires_at, created_at
		FROM seat_holds
		WHERE showtime_id = $1 AND expires_at > $2
	`

	rows, err := r.db.Query(ctx, query, showtimeID, now)
	if err != nil {
		r.log.Error("Failed to find active holds",
			zap.Error(err),
			zap.String("showtime_id", showtimeID.String()),
		)
		return nil, fmt.Errorf("find active holds for showtime %s: %w", showtimeID.String(), err)
	}
	defer rows.Close()

	return scanHolds(rows)
}

func (r *holdRepository) FindActiveByUser(ctx context.Context, showtimeID, userID uuid.UUID, now time.Time) ([]*entity.SeatHold, error) {
	query := `
		SELECT showtime_id, seat_name, user_id, expires_at, created_at
		FROM seat_holds
		WHERE showtime_id = $1 AND user_id = $2 AND expires_at > $3
	`

	rows, err := r.db.Query(ctx, query, showtimeID, userID, now)
	if err != nil {
		r.log.Error("Failed to find user holds",
			zap.Error(err),
			zap.String("showtime_id", showtimeID.String()),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find holds for user %s showtime %s: %w", userID.String(), showtimeID.String(), err)
	}
	defer rows.Close()

	return scanHolds(rows)
}

func (r *holdRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM seat_holds WHERE expires_at <= $1`, now)
	if err != nil {
		r.log.Error("Failed to delete expired holds", zap.Error(err))
		return 0, fmt.Errorf("delete expired holds: %w", err)
	}
	return result.RowsAffected(), nil
}

func scanHolds(rows pgx.Rows) ([]*entity.SeatHold, error) {
	var holds []*entity.SeatHold
	for rows.Next() {
		var hold entity.SeatHold
		err := rows.Scan(
			&hold.ShowtimeID,
			&hold.SeatName,
			&hold.UserID,
			&hold.ExpiresAt,
			&hold.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan hold row: %w", err)
		}
		holds = append(holds, &hold)
	}
	return holds, rows.Err()
}
