package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cinema-tickets/internal/data/entity"
	"cinema-tickets/pkg/utils"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const routingKeyBookingConfirmed = "booking.confirmed"

// BookingConfirmed is the event published after a booking commits. Consumers
// send tickets and receipts; publication is fire-and-forget and never blocks
// the booking itself.
type BookingConfirmed struct {
	BookingID   string    `json:"booking_id"`
	Reference   string    `json:"reference"`
	UserID      string    `json:"user_id"`
	ShowtimeID  string    `json:"showtime_id"`
	Seats       []string  `json:"seats"`
	AmountCents int64     `json:"amount_cents"`
	BookedAt    time.Time `json:"booked_at"`
}

// Notifier publishes booking events.
type Notifier interface {
	BookingConfirmed(ctx context.Context, booking *entity.Booking)
	Close() error
}

type amqpNotifier struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	log      *zap.Logger
}

func NewNotifier(config utils.AMQPConfig, log *zap.Logger) (Notifier, error) {
	conn, err := amqp.Dial(config.URL)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		config.Exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", config.Exchange, err)
	}

	return &amqpNotifier{
		conn:     conn,
		channel:  channel,
		exchange: config.Exchange,
		log:      log.With(zap.String("component", "notifier")),
	}, nil
}

func (n *amqpNotifier) BookingConfirmed(ctx context.Context, booking *entity.Booking) {
	event := BookingConfirmed{
		BookingID:   booking.ID.String(),
		Reference:   booking.Reference,
		UserID:      booking.UserID.String(),
		ShowtimeID:  booking.ShowtimeID.String(),
		AmountCents: booking.TotalPriceCents,
		BookedAt:    booking.CreatedAt,
	}
	for _, seat := range booking.Seats {
		event.Seats = append(event.Seats, seat.SeatName)
	}

	body, err := json.Marshal(event)
	if err != nil {
		n.log.Error("Failed to marshal booking event",
			zap.Error(err),
			zap.String("booking_id", event.BookingID),
		)
		return
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = n.channel.PublishWithContext(publishCtx,
		n.exchange,
		routingKeyBookingConfirmed,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		n.log.Error("Failed to publish booking event",
			zap.Error(err),
			zap.String("booking_id", event.BookingID),
		)
		return
	}

	n.log.Info("Booking event published",
		zap.String("booking_id", event.BookingID),
		zap.String("reference", event.Reference),
	)
}

func (n *amqpNotifier) Close() error {
	if err := n.channel.Close(); err != nil {
		n.conn.Close()
		return err
	}
	return n.conn.Close()
}

// NopNotifier drops every event. Used when AMQP is not configured and in
// tests.
type NopNotifier struct{}

func (NopNotifier) BookingConfirmed(context.Context, *entity.Booking) {}
func (NopNotifier) Close() error                                      { return nil }
