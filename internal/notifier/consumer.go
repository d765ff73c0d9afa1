package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"cinema-tickets/pkg/utils"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const confirmationQueue = "booking-confirmations"

// Consumer drains booking.confirmed events and hands each one to the
// delivery step. Ticket and receipt delivery hang off this queue so a burst
// of bookings never slows the HTTP path down.
type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	log     *zap.Logger
}

func NewConsumer(config utils.AMQPConfig, log *zap.Logger) (*Consumer, error) {
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

	queue, err := channel.QueueDeclare(
		confirmationQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", confirmationQueue, err)
	}

	err = channel.QueueBind(queue.Name, routingKeyBookingConfirmed, config.Exchange, false, nil)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("bind queue %s: %w", queue.Name, err)
	}

	return &Consumer{
		conn:    conn,
		channel: channel,
		queue:   queue.Name,
		log:     log.With(zap.String("component", "confirmation-consumer")),
	}, nil
}

// Run consumes until the context is cancelled or the channel closes.
func (c *Consumer) Run(ctx context.Context) error {
	deliveries, err := c.channel.Consume(
		c.queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.queue, err)
	}

	c.log.Info("Confirmation consumer started", zap.String("queue", c.queue))

	for {
		select {
		case <-ctx.Done():
			c.log.Info("Confirmation consumer stopped")
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				c.log.Warn("Delivery channel closed")
				return nil
			}
			c.handle(delivery)
		}
	}
}

func (c *Consumer) handle(delivery amqp.Delivery) {
	var event BookingConfirmed
	if err := json.Unmarshal(delivery.Body, &event); err != nil {
		c.log.Error("Dropping undecodable booking event", zap.Error(err))
		delivery.Nack(false, false)
		return
	}

	// Delivery is a log line for now. TODO: send the ticket email once an
	// outbound mail channel exists.
	c.log.Info("Booking confirmed",
		zap.String("booking_id", event.BookingID),
		zap.String("reference", event.Reference),
		zap.String("user_id", event.UserID),
		zap.Strings("seats", event.Seats),
		zap.Int64("amount_cents", event.AmountCents),
	)

	delivery.Ack(false)
}

func (c *Consumer) Close() error {
	if err := c.channel.Close(); err != nil {
		c.conn.Close()
		return err
	}
	return c.conn.Close()
}
