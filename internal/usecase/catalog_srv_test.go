package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"cinema-tickets/internal/data/entity"
	"cinema-tickets/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// catalogFixture builds a fixture plus a movie and a screen created through
// the service, ready for showtime scheduling.
func catalogFixture(t *testing.T) (*fixture, string, string) {
	t.Helper()
	f := newFixture()
	ctx := context.Background()

	movie, err := f.service.Catalog.CreateMovie(ctx, &request.CreateMovieRequest{
		Title:           "Heat",
		Description:     "A heist crew against a relentless detective",
		DurationMinutes: 170,
		Status:          "now-showing",
	})
	require.NoError(t, err)

	hall, err := f.service.Catalog.CreateHall(ctx, &request.CreateHallRequest{
		Name:    "Riverside",
		Address: "42 Quay Rd",
	})
	require.NoError(t, err)

	screen, err := f.service.Catalog.CreateScreen(ctx, &request.CreateScreenRequest{
		HallID: hall.ID,
		Name:   "Screen 2",
		Layout: []request.SeatDefinitionRequest{
			{SeatName: "A1", Class: "regular", PriceCents: 1000},
			{SeatName: "A2", Class: "premium", PriceCents: 1500},
		},
	})
	require.NoError(t, err)

	return f, movie.ID, screen.ID
}

func TestCreateShowtimeRejectsOverlap(t *testing.T) {
	f, movieID, screenID := catalogFixture(t)
	ctx := context.Background()

	day := time.Now().Add(48 * time.Hour).Truncate(time.Hour)
	at := func(h int) string { return day.Add(time.Duration(h) * time.Hour).Format(time.RFC3339) }

	// [14:00, 16:00) books fine.
	_, err := f.service.Catalog.CreateShowtime(ctx, &request.CreateShowtimeRequest{
		MovieID:   movieID,
		ScreenID:  screenID,
		StartTime: at(14),
		EndTime:   at(16),
	})
	require.NoError(t, err)

	// [15:00, 17:00) collides.
	_, err = f.service.Catalog.CreateShowtime(ctx, &request.CreateShowtimeRequest{
		MovieID:   movieID,
		ScreenID:  screenID,
		StartTime: at(15),
		EndTime:   at(17),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrOverlappingShowtime))

	// [16:00, 18:00) touches the boundary and is allowed.
	_, err = f.service.Catalog.CreateShowtime(ctx, &request.CreateShowtimeRequest{
		MovieID:   movieID,
		ScreenID:  screenID,
		StartTime: at(16),
		EndTime:   at(18),
	})
	require.NoError(t, err)

	// [12:00, 14:00) on the other side of the boundary too.
	_, err = f.service.Catalog.CreateShowtime(ctx, &request.CreateShowtimeRequest{
		MovieID:   movieID,
		ScreenID:  screenID,
		StartTime: at(12),
		EndTime:   at(14),
	})
	require.NoError(t, err)
}

func TestCreateShowtimeOverlapIsPerScreen(t *testing.T) {
	f, movieID, screenID := catalogFixture(t)
	ctx := context.Background()

	day := time.Now().Add(48 * time.Hour).Truncate(time.Hour)
	start := day.Add(14 * time.Hour).Format(time.RFC3339)
	end := day.Add(16 * time.Hour).Format(time.RFC3339)

	_, err := f.service.Catalog.CreateShowtime(ctx, &request.CreateShowtimeRequest{
		MovieID:   movieID,
		ScreenID:  screenID,
		StartTime: start,
		EndTime:   end,
	})
	require.NoError(t, err)

	// The same slot on the fixture's other screen is independent.
	_, err = f.service.Catalog.CreateShowtime(ctx, &request.CreateShowtimeRequest{
		MovieID:   movieID,
		ScreenID:  f.screenID.String(),
		StartTime: start,
		EndTime:   end,
	})
	require.NoError(t, err)
}

func TestCreateShowtimeRejectsInvertedInterval(t *testing.T) {
	f, movieID, screenID := catalogFixture(t)

	day := time.Now().Add(48 * time.Hour).Truncate(time.Hour)

	_, err := f.service.Catalog.CreateShowtime(context.Background(), &request.CreateShowtimeRequest{
		MovieID:   movieID,
		ScreenID:  screenID,
		StartTime: day.Add(16 * time.Hour).Format(time.RFC3339),
		EndTime:   day.Add(14 * time.Hour).Format(time.RFC3339),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrInvalidSelection))
}

func TestCreateScreenRejectsDuplicateSeats(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	hall, err := f.service.Catalog.CreateHall(ctx, &request.CreateHallRequest{
		Name:    "Annex",
		Address: "9 Side St",
	})
	require.NoError(t, err)

	_, err = f.service.Catalog.CreateScreen(ctx, &request.CreateScreenRequest{
		HallID: hall.ID,
		Name:   "Screen 3",
		Layout: []request.SeatDefinitionRequest{
			{SeatName: "A1", Class: "regular", PriceCents: 1000},
			{SeatName: "A1", Class: "vip", PriceCents: 2500},
		},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrInvalidSelection))
}

func TestGetMovieNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.service.Catalog.GetMovie(context.Background(), "79a1f3de-2f6a-4d58-8a5c-93b1a7e6c222")
	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrNotFound))
}
