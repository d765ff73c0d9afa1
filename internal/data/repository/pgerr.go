package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation     = "23505"
	codeSerializationFail   = "40001"
	codeDeadlockDetected    = "40P01"
	constraintSoldSeat      = "sold_seats_showtime_id_seat_name_key"
	constraintHeldSeat      = "seat_holds_showtime_id_seat_name_key"
	constraintPaymentRef    = "bookings_payment_ref_key"
	constraintShowtimeSlot  = "showtimes_screen_no_overlap"
	constraintScreenSeat    = "screen_seats_screen_id_seat_name_key"
	constraintUserEmail     = "users_email_key"
)

func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func pgErrConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// isUniqueViolation reports whether err is a unique-constraint violation,
// optionally on a specific constraint. The hold/ledger paths rely on these
// violations as the storage-level double-booking guard.
func isUniqueViolation(err error, constraint string) bool {
	if pgErrCode(err) != codeUniqueViolation {
		return false
	}
	return constraint == "" || pgErrConstraint(err) == constraint
}

// IsRetryable reports whether err is a transient transaction failure
// (serialization or deadlock) worth retrying a bounded number of times.
func IsRetryable(err error) bool {
	switch pgErrCode(err) {
	case codeSerializationFail, codeDeadlockDetected:
		return true
	}
	return false
}
