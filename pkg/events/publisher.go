package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher sends JSON events to a named durable queue.
type Publisher interface {
	Publish(ctx context.Context, queue string, event interface{}) error
	Close() error
}

// NopPublisher drops every event. Used when events are disabled.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, string, interface{}) error { return nil }

// Close implements Publisher.
func (NopPublisher) Close() error { return nil }

type dialFunc func(url string) (*amqp.Connection, error)

const dialTimeout = 2 * time.Second

func dialWithTimeout(url string) (*amqp.Connection, error) {
	return amqp.DialConfig(url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(dialTimeout),
	})
}

// AMQPPublisher keeps one broker connection and opens a short-lived channel per publish.
// A dropped connection is re-dialled on the next publish.
type AMQPPublisher struct {
	url    string
	prefix string
	logger *zap.Logger
	dial   dialFunc

	mu       sync.Mutex
	conn     *amqp.Connection
	declared map[string]struct{}
}

// NewAMQPPublisher builds a publisher. The connection is established lazily.
func NewAMQPPublisher(url, queuePrefix string, logger *zap.Logger) *AMQPPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AMQPPublisher{url: url, prefix: queuePrefix, logger: logger, dial: dialWithTimeout, declared: map[string]struct{}{}}
}

// QueueName applies the configured prefix.
func (p *AMQPPublisher) QueueName(queue string) string {
	if p.prefix == "" {
		return queue
	}
	return p.prefix + "." + queue
}

// Publish marshals event and sends it as a persistent message through the default exchange.
func (p *AMQPPublisher) Publish(ctx context.Context, queue string, event interface{}) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event for %s: %w", queue, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	conn, err := p.connection()
	if err != nil {
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		p.reset()
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	name := p.QueueName(queue)
	if _, ok := p.declared[name]; !ok {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare queue %s: %w", name, err)
		}
		p.declared[name] = struct{}{}
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", name, false, false, msg); err != nil {
		return fmt.Errorf("publish %s: %w", name, err)
	}
	return nil
}

// Close shuts the broker connection down.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil || p.conn.IsClosed() {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	return err
}

func (p *AMQPPublisher) connection() (*amqp.Connection, error) {
	if p.conn != nil && !p.conn.IsClosed() {
		return p.conn, nil
	}
	conn, err := p.dial(p.url)
	if err != nil {
		p.logger.Warn("rabbitmq dial failed", zap.Error(err))
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	p.conn = conn
	p.declared = map[string]struct{}{}
	return conn, nil
}

func (p *AMQPPublisher) reset() {
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.conn = nil
}
