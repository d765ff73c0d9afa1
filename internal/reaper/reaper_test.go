package reaper

import (
	"context"
	"sync"
	"testing"
	"time"

	"cinema-tickets/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// countingHolds records DeleteExpired calls and pretends each sweep removed
// two rows.
type countingHolds struct {
	mu     sync.Mutex
	sweeps int
}

func (c *countingHolds) Grant(ctx context.Context, showtimeID, userID uuid.UUID, seatNames []string, expiresAt, now time.Time) error {
	return nil
}

func (c *countingHolds) Release(ctx context.Context, showtimeID, userID uuid.UUID) error {
	return nil
}

func (c *countingHolds) FindActiveByShowtime(ctx context.Context, showtimeID uuid.UUID, now time.Time) ([]*entity.SeatHold, error) {
	return nil, nil
}

func (c *countingHolds) FindActiveByUser(ctx context.Context, showtimeID, userID uuid.UUID, now time.Time) ([]*entity.SeatHold, error) {
	return nil, nil
}

func (c *countingHolds) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweeps++
	return 2, nil
}

func (c *countingHolds) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sweeps
}

func TestReaperSweepsOnInterval(t *testing.T) {
	holds := &countingHolds{}
	r := New(holds, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)

	require.Eventually(t, func() bool { return holds.count() >= 3 },
		time.Second, 5*time.Millisecond)
}

func TestReaperStopsOnCancel(t *testing.T) {
	holds := &countingHolds{}
	r := New(holds, 5*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return holds.count() >= 1 },
		time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reaper did not stop after cancel")
	}

	after := holds.count()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, holds.count())
}
