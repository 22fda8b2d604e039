// Package service provides functions to publish domain events to RabbitMQ.
// Errors are logged and returned to allow callers to ignore failures without
// interrupting the main request flow.
package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/paralympics-iris/internal/logging"
	"github.com/iliyamo/paralympics-iris/internal/queue"
)

// Publisher emits catalog change events.
type Publisher interface {
	PublishCatalogChanged(ctx context.Context, ev queue.CatalogChangedEvent) error
}

// NewPublisher returns an AMQP publisher for url, or a no-op publisher when
// url is empty.
func NewPublisher(url string) Publisher {
	if url == "" {
		return NopPublisher{}
	}
	return &AMQPPublisher{URL: url}
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) PublishCatalogChanged(context.Context, queue.CatalogChangedEvent) error {
	return nil
}

// defaultDialTimeout bounds the TCP connect and AMQP handshake when the
// caller's context has no earlier deadline.
const defaultDialTimeout = 2 * time.Second

// AMQPPublisher dials the broker per event. Catalog writes are rare so no
// connection is held between requests.
type AMQPPublisher struct {
	URL         string
	DialTimeout time.Duration // zero means defaultDialTimeout
}

// dialTimeout returns the configured timeout, shortened to the time left
// on ctx.
func (p *AMQPPublisher) dialTimeout(ctx context.Context) time.Duration {
	d := p.DialTimeout
	if d <= 0 {
		d = defaultDialTimeout
	}
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < d {
			d = left
		}
	}
	return d
}

// PublishCatalogChanged publishes ev to the "catalog.changed" queue. The
// function never panics; any error is returned so the caller can choose
// to ignore it. Messages are marked as persistent.
func (p *AMQPPublisher) PublishCatalogChanged(ctx context.Context, ev queue.CatalogChangedEvent) error {
	timeout := p.dialTimeout(ctx)
	if timeout <= 0 {
		return errors.Wrap(context.DeadlineExceeded, "rabbitmq: dial failed")
	}
	conn, err := amqp.DialConfig(p.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		return errors.Wrap(err, "rabbitmq: dial failed")
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return errors.Wrap(err, "rabbitmq: channel open failed")
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		queue.CatalogQueueName, // name
		true,                   // durable
		false,                  // autoDelete
		false,                  // exclusive
		false,                  // noWait
		nil,                    // args
	); err != nil {
		return errors.Wrap(err, "rabbitmq: queue declare failed")
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, "rabbitmq: marshal event failed")
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		MessageId:    ev.ID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",                     // default exchange
		queue.CatalogQueueName, // routing key = queue name
		false,                  // mandatory
		false,                  // immediate
		pub,
	); err != nil {
		return errors.Wrap(err, "rabbitmq: publish failed")
	}
	return nil
}

// NotifyCatalogChanged builds the event and publishes it on a short
// deadline. Failures are logged with the request logger and swallowed.
func NotifyCatalogChanged(ctx context.Context, p Publisher, entity, key string, action queue.Action) {
	if p == nil {
		return
	}
	ev := queue.NewCatalogChangedEvent(entity, key, action, time.Now())

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := p.PublishCatalogChanged(ctx, ev); err != nil {
		logging.FromContext(ctx).Warn("catalog event not published",
			"error", err, "entity", entity, "key", key, "action", string(action))
	}
}
