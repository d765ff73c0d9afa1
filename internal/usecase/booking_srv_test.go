package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cinema-tickets/internal/data/entity"
	"cinema-tickets/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBookingSellsSeats(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.service.Reservation.Reserve(ctx, f.alice, &request.ReserveSeatsRequest{
		ShowtimeID: f.showtimeID.String(),
		Seats:      []string{"A1", "B1"},
	})
	require.NoError(t, err)

	booking, err := f.service.Booking.CreateBooking(ctx, f.alice, &request.CreateBookingRequest{
		ShowtimeID: f.showtimeID.String(),
		Seats:      []string{"A1", "B1"},
		PaymentRef: "pi_happy_path",
	})
	require.NoError(t, err)
	require.NotNil(t, booking)

	assert.ElementsMatch(t, []string{"A1", "B1"}, booking.Seats)
	assert.Equal(t, int64(1200+1800), booking.TotalPriceCents)
	assert.Regexp(t, `^BK-\d{8}-[A-Z2-9]{6}$`, booking.Reference)

	// The hold is retired with the sale.
	active, err := f.service.Reservation.ActiveHold(ctx, f.alice, f.showtimeID.String())
	require.NoError(t, err)
	assert.Nil(t, active)

	require.Eventually(t, func() bool { return f.notifier.count() == 1 },
		time.Second, 10*time.Millisecond)
}

func TestCreateBookingIdempotentOnPaymentRef(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.service.Booking.CreateBooking(ctx, f.alice, &request.CreateBookingRequest{
		ShowtimeID: f.showtimeID.String(),
		Seats:      []string{"A1"},
		PaymentRef: "pi_replay",
	})
	require.NoError(t, err)

	second, err := f.service.Booking.CreateBooking(ctx, f.alice, &request.CreateBookingRequest{
		ShowtimeID: f.showtimeID.String(),
		Seats:      []string{"A1"},
		PaymentRef: "pi_replay",
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Reference, second.Reference)

	// Only the original commit notifies.
	require.Eventually(t, func() bool { return f.notifier.count() == 1 },
		time.Second, 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, f.notifier.count())
}

func TestCreateBookingRejectsSoldSeats(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.service.Booking.CreateBooking(ctx, f.alice, &request.CreateBookingRequest{
		ShowtimeID: f.showtimeID.String(),
		Seats:      []string{"A1", "A2"},
		PaymentRef: "pi_winner",
	})
	require.NoError(t, err)

	_, err = f.service.Booking.CreateBooking(ctx, f.bob, &request.CreateBookingRequest{
		ShowtimeID: f.showtimeID.String(),
		Seats:      []string{"A2", "A3"},
		PaymentRef: "pi_loser",
	})
	require.Error(t, err)

	conflict, ok := entity.IsSeatConflict(err)
	require.True(t, ok)
	assert.Equal(t, entity.ConflictSold, conflict.Reason)
	assert.Equal(t, []string{"A2"}, conflict.Seats)

	// A3 stays unsold; nothing partial went through.
	names, err := f.store.soldNames(f.showtimeID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A1", "A2"}, names)
}

func TestCreateBookingAfterHoldExpiry(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// The hold lapsed mid-checkout. As long as nobody else bought the seats,
	// the payment still lands.
	f.holdFor(f.alice, []string{"A1"}, time.Now().Add(-time.Minute))

	booking, err := f.service.Booking.CreateBooking(ctx, f.alice, &request.CreateBookingRequest{
		ShowtimeID: f.showtimeID.String(),
		Seats:      []string{"A1"},
		PaymentRef: "pi_lapsed_hold",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"A1"}, booking.Seats)
}

func TestConcurrentFinalizeSingleWinner(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	const contenders = 8
	errs := make([]error, contenders)

	var wg sync.WaitGroup
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			userID := f.alice
			ref := "pi_race_alice"
			if i%2 == 1 {
				userID = f.bob
				ref = "pi_race_bob"
			}
			_, errs[i] = f.service.Booking.CreateBooking(ctx, userID, &request.CreateBookingRequest{
				ShowtimeID: f.showtimeID.String(),
				Seats:      []string{"C1"},
				PaymentRef: ref,
			})
		}(i)
	}
	wg.Wait()

	// Exactly one buyer ends up owning C1.
	var successes, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		default:
			_, ok := entity.IsSeatConflict(err)
			require.True(t, ok, "unexpected error: %v", err)
			conflicts++
		}
	}
	assert.Equal(t, contenders, successes+conflicts)
	assert.GreaterOrEqual(t, successes, 1)

	names, err := f.store.soldNames(f.showtimeID)
	require.NoError(t, err)
	assert.Equal(t, []string{"C1"}, names)

	f.store.mu.Lock()
	owners := make(map[string]bool)
	for _, seat := range f.store.sold {
		owners[seat.UserID.String()] = true
	}
	f.store.mu.Unlock()
	assert.Len(t, owners, 1)
}

func TestCreateBookingUnknownSeat(t *testing.T) {
	f := newFixture()

	_, err := f.service.Booking.CreateBooking(context.Background(), f.alice, &request.CreateBookingRequest{
		ShowtimeID: f.showtimeID.String(),
		Seats:      []string{"Z9"},
		PaymentRef: "pi_unknown_seat",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrInvalidSelection))
}

func TestHandlePaymentEventFinalizes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	booking, err := f.service.Booking.HandlePaymentEvent(ctx, &request.PaymentWebhookEvent{
		Type: EventPaymentSucceeded,
		Data: request.PaymentIntentData{
			IntentID:    "pi_webhook",
			UserID:      f.alice.String(),
			ShowtimeID:  f.showtimeID.String(),
			Seats:       []string{"B1", "B2"},
			AmountCents: 3600,
		},
	})
	require.NoError(t, err)
	require.NotNil(t, booking)

	assert.Equal(t, "pi_webhook", booking.PaymentRef)
	assert.Equal(t, int64(3600), booking.TotalPriceCents)
}

func TestHandlePaymentEventIgnoresOtherTypes(t *testing.T) {
	f := newFixture()

	booking, err := f.service.Booking.HandlePaymentEvent(context.Background(), &request.PaymentWebhookEvent{
		Type: "payment_intent.payment_failed",
		Data: request.PaymentIntentData{
			IntentID:    "pi_failed",
			UserID:      f.alice.String(),
			ShowtimeID:  f.showtimeID.String(),
			Seats:       []string{"A1"},
			AmountCents: 1200,
		},
	})
	require.NoError(t, err)
	assert.Nil(t, booking)

	names, err := f.store.soldNames(f.showtimeID)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestCreatePaymentIntentPricesSelection(t *testing.T) {
	f := newFixture()

	intent, err := f.service.Booking.CreatePaymentIntent(context.Background(), f.alice, &request.CreatePaymentIntentRequest{
		ShowtimeID: f.showtimeID.String(),
		Seats:      []string{"A1", "C1"},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1200+2500), intent.AmountCents)
	assert.Equal(t, "usd", intent.Currency)
	assert.NotEmpty(t, intent.IntentID)
}

func TestGetBookingHidesForeignBookings(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	booking, err := f.service.Booking.CreateBooking(ctx, f.alice, &request.CreateBookingRequest{
		ShowtimeID: f.showtimeID.String(),
		Seats:      []string{"A1"},
		PaymentRef: "pi_private",
	})
	require.NoError(t, err)

	_, err = f.service.Booking.GetBooking(ctx, f.bob, booking.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrNotFound))

	mine, err := f.service.Booking.GetBooking(ctx, f.alice, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, mine.ID)
}
