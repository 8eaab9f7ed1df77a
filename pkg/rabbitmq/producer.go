/**
 * @description
 * This package provides a producer for publishing ledger events to RabbitMQ.
 * It encapsulates the logic for connecting to RabbitMQ and publishing a
 * message to a topic exchange. Event publishing is strictly best-effort: a
 * publish failure must never fail the ledger operation that produced it.
 *
 * @dependencies
 * - context, encoding/json, time: Standard Go libraries.
 * - github.com/rabbitmq/amqp091-go: The RabbitMQ client library.
 */
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// LedgerExchange is the durable topic exchange all ledger events go to.
const LedgerExchange = "ledger.events"

// LedgerEvent is the payload published after a committed ledger operation.
type LedgerEvent struct {
	Operation          string    `json:"operation"` // created, debited, credited, transferred, interest_accrued
	AccountNumber      int64     `json:"account_number"`
	CounterpartyNumber *int64    `json:"counterparty_number,omitempty"` // destination account on transfers
	Amount             int64     `json:"amount"`
	BalanceAfter       int64     `json:"balance_after"`
	Timestamp          time.Time `json:"timestamp"`
}

// Publisher is the interface implemented by types that can publish events.
type Publisher interface {
	Publish(ctx context.Context, exchange, routingKey string, body interface{}) error
	PublishLedgerEvent(ctx context.Context, event LedgerEvent) error
	Close()
}

// EventProducer holds the RabbitMQ connection and channel for publishing messages.
type EventProducer struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

// EventProducerFallback is a minimal no-op publisher used when RabbitMQ is
// unavailable at startup.
type EventProducerFallback struct{}

func (p *EventProducerFallback) Publish(ctx context.Context, exchange, routingKey string, body interface{}) error {
	log.Printf("level=warn component=rabbitmq_producer mode=fallback msg=\"publish skipped\" exchange=%s routing_key=%s", exchange, routingKey)
	return nil
}

func (p *EventProducerFallback) PublishLedgerEvent(ctx context.Context, event LedgerEvent) error {
	log.Printf("level=warn component=rabbitmq_producer mode=fallback msg=\"ledger event publish skipped\" operation=%s account=%d", event.Operation, event.AccountNumber)
	return nil
}

func (p *EventProducerFallback) Close() {}

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.TrimSpace(raw)
	clean = strings.Trim(clean, "\"'")
	// If any stray characters precede the scheme, slice from first occurrence of amqp
	idx := strings.Index(strings.ToLower(clean), "amqp")
	if idx > 0 {
		clean = clean[idx:]
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

// NewEventProducer creates and returns a new EventProducer.
func NewEventProducer(amqpURL string) (*EventProducer, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}

	// Bounded dial timeout so startup does not hang indefinitely
	conn, err := amqp091.DialConfig(cleanURL, amqp091.Config{Dial: amqp091.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &EventProducer{conn: conn, channel: ch}, nil
}

// Publish sends a message to a specific exchange with a routing key.
func (p *EventProducer) Publish(ctx context.Context, exchange, routingKey string, body interface{}) error {
	// Ensure the exchange exists (durable topic)
	if err := p.channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // autoDelete
		false,    // internal
		false,    // noWait
		nil,      // args
	); err != nil {
		log.Printf("level=warn component=rabbitmq_producer msg=\"exchange declare failed; reopening channel\" exchange=%s err=%v", exchange, err)
		ch, chErr := p.conn.Channel()
		if chErr != nil {
			return chErr
		}
		p.channel = ch
		if err := p.channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
			return err
		}
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		log.Printf("level=error component=rabbitmq_producer msg=\"json marshal failed\" exchange=%s routing_key=%s err=%v", exchange, routingKey, err)
		return err
	}

	publishing := amqp091.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now(),
		Body:        jsonBody,
	}

	err = p.channel.PublishWithContext(ctx, exchange, routingKey, false, false, publishing)
	if err != nil {
		log.Printf("level=warn component=rabbitmq_producer msg=\"publish failed; reopening channel\" exchange=%s routing_key=%s err=%v", exchange, routingKey, err)
		// One-shot retry: reopen channel and try again
		ch, chErr := p.conn.Channel()
		if chErr != nil {
			return err
		}
		p.channel = ch
		if exErr := p.channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); exErr != nil {
			return err
		}
		return p.channel.PublishWithContext(ctx, exchange, routingKey, false, false, publishing)
	}
	return nil
}

// PublishLedgerEvent publishes a ledger event to the ledger.events exchange,
// routed by operation (e.g. "account.debited").
func (p *EventProducer) PublishLedgerEvent(ctx context.Context, event LedgerEvent) error {
	return p.Publish(ctx, LedgerExchange, "account."+event.Operation, event)
}

// Close gracefully closes the channel and connection to RabbitMQ.
func (p *EventProducer) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
