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

type ScreenRepository interface {
	// Create inserts the screen and its full seat layout in one transaction.
	Create(ctx context.Context, screen *entity.Screen) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Screen, error)
	FindByHallID(ctx context.Context, hallID uuid.UUID) ([]*entity.Screen, error)
	// ReplaceLayout swaps the whole seat layout; individual seats are never
	// edited in place.
	ReplaceLayout(ctx context.Context, screenID uuid.UUID, layout []entity.SeatDefinition) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type screenRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewScreenRepository(db database.PgxIface, log *zap.Logger) ScreenRepository {
	return &screenRepository{
		db:  db,
		log: log.With(zap.String("repository", "screen")),
	}
}

func (r *screenRepository) Create(ctx context.Context, screen *entity.Screen) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin screen tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO screens (id, hall_id, name, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		screen.ID,
		screen.HallID,
		screen.Name,
		screen.CreatedAt,
		screen.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create screen",
			zap.Error(err),
			zap.String("hall_id", screen.HallID.String()),
			zap.String("name", screen.Name),
		)
		return fmt.Errorf("create screen %s: %w", screen.Name, err)
	}

	if err := insertLayout(ctx, tx, screen.ID, screen.Layout); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit screen tx: %w", err)
	}
	return nil
}

func insertLayout(ctx context.Context, tx pgx.Tx, screenID uuid.UUID, layout []entity.SeatDefinition) error {
	for _, seat := range layout {
		_, err := tx.Exec(ctx,
			`INSERT INTO screen_seats (screen_id, seat_name, class, price_cents)
			 VALUES ($1, $2, $3, $4)`,
			screenID, seat.SeatName, seat.Class, seat.PriceCents,
		)
		if err != nil {
			if isUniqueViolation(err, constraintScreenSeat) {
				return fmt.Errorf("duplicate seat name %s in layout: %w", seat.SeatName, entity.ErrInvalidSelection)
			}
			return fmt.Errorf("insert layout seat %s: %w", seat.SeatName, err)
		}
	}
	return nil
}

func (r *screenRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Screen, error) {
	var screen entity.Screen
	err := r.db.QueryRow(ctx,
		`SELECT id, hall_id, name, created_at, updated_at FROM screens WHERE id = $1`, id).Scan(
		&screen.ID,
		&screen.HallID,
		&screen.Name,
		&screen.CreatedAt,
		&screen.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find screen by ID",
			zap.Error(err),
			zap.String("screen_id", id.String()),
		)
		return nil, fmt.Errorf("find screen by ID %s: %w", id.String(), err)
	}

	layout, err := r.layout(ctx, screen.ID)
	if err != nil {
		return nil, err
	}
	screen.Layout = layout
	return &screen, nil
}

func (r *screenRepository) layout(ctx context.Context, screenID uuid.UUID) ([]entity.SeatDefinition, error) {
	rows, err := r.db.Query(ctx,
		`SELECT seat_name, class, price_cents FROM screen_seats
		 WHERE screen_id = $1 ORDER BY seat_name`,
		screenID,
	)
	if err != nil {
		return nil, fmt.Errorf("load layout for screen %s: %w", screenID.String(), err)
	}
	defer rows.Close()

	var layout []entity.SeatDefinition
	for rows.Next() {
		var seat entity.SeatDefinition
		if err := rows.Scan(&seat.SeatName, &seat.Class, &seat.PriceCents); err != nil {
			return nil, fmt.Errorf("scan layout seat: %w", err)
		}
		layout = append(layout, seat)
	}
	return layout, rows.Err()
}

func (r *screenRepository) FindByHallID(ctx context.Context, hallID uuid.UUID) ([]*entity.Screen, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, hall_id, name, created_at, updated_at FROM screens
		 WHERE hall_id = $1 ORDER BY name`,
		hallID,
	)
	if err != nil {
		r.log.Error("Failed to find screens by hall ID",
			zap.Error(err),
			zap.String("hall_id", hallID.String()),
		)
		return nil, fmt.Errorf("find screens by hall ID %s: %w", hallID.String(), err)
	}
	defer rows.Close()

	var screens []*entity.Screen
	for rows.Next() {
		var screen entity.Screen
		err := rows.Scan(
			&screen.ID,
			&screen.HallID,
			&screen.Name,
			&screen.CreatedAt,
			&screen.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan screen row: %w", err)
		}
		screens = append(screens, &screen)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, screen := range screens {
		layout, err := r.layout(ctx, screen.ID)
		if err != nil {
			return nil, err
		}
		screen.Layout = layout
	}
	return screens, nil
}

func (r *screenRepository) ReplaceLayout(ctx context.Context, screenID uuid.UUID, layout []entity.SeatDefinition) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin layout tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `DELETE FROM screen_seats WHERE screen_id = $1`, screenID)
	if err != nil {
		return fmt.Errorf("clear layout for screen %s: %w", screenID.String(), err)
	}

	if err := insertLayout(ctx, tx, screenID, layout); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit layout tx: %w", err)
	}
	return nil
}

func (r *screenRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM screens WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete screen",
			zap.Error(err),
			zap.String("screen_id", id.String()),
		)
		return fmt.Errorf("delete screen %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrNotFound
	}
	return nil
}
