package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const exchangeKind = "topic"

// AMQPBridge forwards dispatched booking events to a RabbitMQ topic exchange.
// The event type is used as routing key.
type AMQPBridge struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   *zap.Logger
}

// NewAMQPBridge dials url and declares a durable topic exchange.
func NewAMQPBridge(url, exchange string, logger *zap.Logger) (*AMQPBridge, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, exchangeKind, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("rabbitmq exchange declare: %w", err)
	}

	return &AMQPBridge{conn: conn, channel: ch, exchange: exchange, logger: logger}, nil
}

// Attach subscribes the bridge to every booking event on d.
func (b *AMQPBridge) Attach(d Dispatcher) {
	d.Subscribe(EventBookingCreated, b.Forward)
	d.Subscribe(EventBookingCancelled, b.Forward)
}

// Forward publishes a single event.
func (b *AMQPBridge) Forward(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.channel.PublishWithContext(ctx,
		b.exchange,
		string(event.Type),
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.ID,
			Timestamp:    event.Timestamp,
			Body:         body,
		},
	); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	b.logger.Debug("event forwarded", zap.String("exchange", b.exchange), zap.String("type", string(event.Type)))
	return nil
}

// Close releases the channel and connection.
func (b *AMQPBridge) Close() {
	if b == nil {
		return
	}
	if b.channel != nil {
		_ = b.channel.Close()
	}
	if b.conn != nil {
		_ = b.conn.Close()
	}
}
