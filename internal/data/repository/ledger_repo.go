package repository

import (
	"context"
	"fmt"

	"cinema-tickets/internal/data/entity"
	"cinema-tickets/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// LedgerRepository is the seat ledger: permanent sold-seat records grouped
// under bookings. Finalize is the true serialization point of the whole
// system; the UNIQUE(showtime_id, seat_name) constraint on sold_seats is the
// storage-level defense against double-selling, and UNIQUE(payment_ref) on
// bookings is the finalize idempotence key.
type LedgerRepository interface {
	// Finalize commits the booking and its sold seats and retires the buyer's
	// hold rows, all in one transaction. When a booking with the same payment
	// reference already exists (retried webhook, client fallback), the
	// existing booking is returned instead of an error. A sold-seat
	// uniqueness violation surfaces as *entity.SeatConflictError.
	Finalize(ctx context.Context, booking *entity.Booking) (*entity.Booking, error)

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByPaymentRef(ctx context.Context, paymentRef string) (*entity.Booking, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)

	// SoldSeatNames lists every sold seat name for a showtime.
	SoldSeatNames(ctx context.Context, showtimeID uuid.UUID) ([]string, error)
}

type ledgerRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewLedgerRepository(db database.PgxIface, log *zap.Logger) LedgerRepository {
	return &ledgerRepository{
		db:  db,
		log: log.With(zap.String("repository", "ledger")),
	}
}

func (r *ledgerRepository) Finalize(ctx context.Context, booking *entity.Booking) (*entity.Booking, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin finalize tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// Idempotent replay: same payment reference returns the same booking.
	existing, err := r.findByPaymentRefTx(ctx, tx, booking.PaymentRef)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO bookings (id, reference, showtime_id, user_id, payment_ref, total_price_cents, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		booking.ID,
		booking.Reference,
		booking.ShowtimeID,
		booking.UserID,
		booking.PaymentRef,
		booking.TotalPriceCents,
		booking.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, constraintPaymentRef) {
			// A concurrent finalize with the same reference won; hand back
			// its booking.
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				r.log.Warn("Rollback after payment_ref race failed", zap.Error(rbErr))
			}
			winner, findErr := r.FindByPaymentRef(ctx, booking.PaymentRef)
			if findErr != nil {
				return nil, findErr
			}
			if winner == nil {
				return nil, fmt.Errorf("finalize %s: duplicate payment ref but booking not found", booking.PaymentRef)
			}
			return winner, nil
		}
		return nil, fmt.Errorf("insert booking %s: %w", booking.Reference, err)
	}

	for _, seat := range booking.Seats {
		_, err = tx.Exec(ctx,
			`INSERT INTO sold_seats (booking_id, showtime_id, seat_name, user_id, price_cents)
			 VALUES ($1, $2, $3, $4, $5)`,
			booking.ID,
			booking.ShowtimeID,
			seat.SeatName,
			booking.UserID,
			seat.PriceCents,
		)
		if err != nil {
			if isUniqueViolation(err, constraintSoldSeat) {
				if rbErr := tx.Rollback(ctx); rbErr != nil {
					r.log.Warn("Rollback after sold-seat race failed", zap.Error(rbErr))
				}
				return nil, r.soldConflict(ctx, booking)
			}
			return nil, fmt.Errorf("insert sold seat %s for showtime %s: %w",
				seat.SeatName, booking.ShowtimeID.String(), err)
		}
	}

	// Retire the buyer's hold in the same transaction as the commit.
	_, err = tx.Exec(ctx,
		`DELETE FROM seat_holds WHERE showtime_id = $1 AND user_id = $2`,
		booking.ShowtimeID, booking.UserID,
	)
	if err != nil {
		return nil, fmt.Errorf("retire hold for showtime %s: %w", booking.ShowtimeID.String(), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit finalize tx: %w", err)
	}

	return booking, nil
}

// soldConflict names the seats that were already committed when a finalize
// lost the sold-seat race.
func (r *ledgerRepository) soldConflict(ctx context.Context, booking *entity.Booking) error {
	names := make([]string, len(booking.Seats))
	for i, seat := range booking.Seats {
		names[i] = seat.SeatName
	}

	rows, err := r.db.Query(ctx,
		`SELECT seat_name FROM sold_seats WHERE showtime_id = $1 AND seat_name = ANY($2)`,
		booking.ShowtimeID, names,
	)
	if err != nil {
		return &entity.SeatConflictError{Reason: entity.ConflictSold, Seats: names}
	}
	defer rows.Close()

	var conflict []string
	for rows.Next() {
		var seat string
		if err := rows.Scan(&seat); err != nil {
			return &entity.SeatConflictError{Reason: entity.ConflictSold, Seats: names}
		}
		conflict = append(conflict, seat)
	}
	if len(conflict) == 0 {
		conflict = names
	}
	return &entity.SeatConflictError{Reason: entity.ConflictSold, Seats: conflict}
}

func (r *ledgerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return r.findOne(ctx,
		`SELECT id, reference, showtime_id, user_id, payment_ref, total_price_cents, created_at
		 FROM bookings WHERE id = $1`, id)
}

func (r *ledgerRepository) FindByPaymentRef(ctx context.Context, paymentRef string) (*entity.Booking, error) {
	return r.findOne(ctx,
		`SELECT id, reference, showtime_id, user_id, payment_ref, total_price_cents, created_at
		 FROM bookings WHERE payment_ref = $1`, paymentRef)
}

func (r *ledgerRepository) findOne(ctx context.Context, query string, arg any) (*entity.Booking, error) {
	var booking entity.Booking
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&booking.ID,
		&booking.Reference,
		&booking.ShowtimeID,
		&booking.UserID,
		&booking.PaymentRef,
		&booking.TotalPriceCents,
		&booking.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking", zap.Error(err))
		return nil, fmt.Errorf("find booking: %w", err)
	}

	if err := r.loadSeats(ctx, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *ledgerRepository) findByPaymentRefTx(ctx context.Context, tx pgx.Tx, paymentRef string) (*entity.Booking, error) {
	var booking entity.Booking
	err := tx.QueryRow(ctx,
		`SELECT id, reference, showtime_id, user_id, payment_ref, total_price_cents, created_at
		 FROM bookings WHERE payment_ref = $1`, paymentRef).Scan(
		&booking.ID,
		&booking.Reference,
		&booking.ShowtimeID,
		&booking.UserID,
		&booking.PaymentRef,
		&booking.TotalPriceCents,
		&booking.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find booking by payment ref %s: %w", paymentRef, err)
	}

	if err := r.loadSeatsTx(ctx, tx, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *ledgerRepository) loadSeats(ctx context.Context, booking *entity.Booking) error {
	rows, err := r.db.Query(ctx,
		`SELECT booking_id, showtime_id, seat_name, user_id, price_cents
		 FROM sold_seats WHERE booking_id = $1 ORDER BY seat_name`,
		booking.ID,
	)
	if err != nil {
		return fmt.Errorf("load seats for booking %s: %w", booking.ID.String(), err)
	}
	defer rows.Close()
	return scanSoldSeats(rows, booking)
}

func (r *ledgerRepository) loadSeatsTx(ctx context.Context, tx pgx.Tx, booking *entity.Booking) error {
	rows, err := tx.Query(ctx,
		`SELECT booking_id, showtime_id, seat_name, user_id, price_cents
		 FROM sold_seats WHERE booking_id = $1 ORDER BY seat_name`,
		booking.ID,
	)
	if err != nil {
		return fmt.Errorf("load seats for booking %s: %w", booking.ID.String(), err)
	}
	defer rows.Close()
	return scanSoldSeats(rows, booking)
}

func scanSoldSeats(rows pgx.Rows, booking *entity.Booking) error {
	for rows.Next() {
		var seat entity.SoldSeat
		err := rows.Scan(
			&seat.BookingID,
			&seat.ShowtimeID,
			&seat.SeatName,
			&seat.UserID,
			&seat.PriceCents,
		)
		if err != nil {
			return fmt.Errorf("scan sold seat row: %w", err)
		}
		booking.Seats = append(booking.Seats, seat)
	}
	return rows.Err()
}

func (r *ledgerRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT id, reference, showtime_id, user_id, payment_ref, total_price_cents, created_at
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find bookings by user ID %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		var booking entity.Booking
		err := rows.Scan(
			&booking.ID,
			&booking.Reference,
			&booking.ShowtimeID,
			&booking.UserID,
			&booking.PaymentRef,
			&booking.TotalPriceCents,
			&booking.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, &booking)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, booking := range bookings {
		if err := r.loadSeats(ctx, booking); err != nil {
			return nil, err
		}
	}
	return bookings, nil
}

func (r *ledgerRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count bookings by user ID %s: %w", userID.String(), err)
	}
	return count, nil
}

func (r *ledgerRepository) SoldSeatNames(ctx context.Context, showtimeID uuid.UUID) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT seat_name FROM sold_seats WHERE showtime_id = $1 ORDER BY seat_name`,
		showtimeID,
	)
	if err != nil {
		r.log.Error("Failed to list sold seats",
			zap.Error(err),
			zap.String("showtime_id", showtimeID.String()),
		)
		return nil, fmt.Errorf("list sold seats for showtime %s: %w", showtimeID.String(), err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var seat string
		if err := rows.Scan(&seat); err != nil {
			return nil, fmt.Errorf("scan seat name: %w", err)
		}
		names = append(names, seat)
	}
	return names, rows.Err()
}
