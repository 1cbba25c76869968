/**
 * @description
 * This package provides a small RabbitMQ event producer used to fan exported
 * Monzo transactions out to downstream consumers.
 *
 * Key features:
 * - Manages the AMQP connection and channel.
 * - Declares a durable topic exchange once, at construction.
 * - Publishes JSON bodies as persistent messages carrying a message id, so
 *   consumers can drop redeliveries.
 *
 * @dependencies
 * - github.com/rabbitmq/amqp091-go: The official Go client for RabbitMQ.
 */
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// Message is a single event to publish.
type Message struct {
	ID         string
	RoutingKey string
	Body       interface{}
}

// channel is the subset of *amqp091.Channel the producer needs.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// EventProducer publishes JSON events to one topic exchange.
type EventProducer struct {
	exchange string
	conn     *amqp091.Connection
	channel  channel
	now      func() time.Time
}

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.TrimSpace(raw)
	clean = strings.Trim(clean, "\"'")
	if !strings.HasSuffix(clean, "/") {
		clean += "/"
	}
	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	return clean, nil
}

// NewEventProducer dials RabbitMQ and declares the exchange.
func NewEventProducer(amqpURL, exchange string) (*EventProducer, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}

	conn, err := amqp091.Dial(cleanURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %q: %w", exchange, err)
	}

	return &EventProducer{
		exchange: exchange,
		conn:     conn,
		channel:  ch,
		now:      time.Now,
	}, nil
}

// Publish marshals msg.Body to JSON and sends it with msg.RoutingKey.
func (p *EventProducer) Publish(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg.Body)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", msg.ID, err)
	}

	err = p.channel.PublishWithContext(ctx,
		p.exchange,     // exchange
		msg.RoutingKey, // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    msg.ID,
			Timestamp:    p.now().UTC(),
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish event %s: %w", msg.ID, err)
	}
	return nil
}

// Close gracefully closes the channel and connection.
func (p *EventProducer) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
