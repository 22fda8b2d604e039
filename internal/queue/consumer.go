package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
)

// CatalogLogFile is the file, relative to the consumer directory, that
// receives one line per consumed event.
const CatalogLogFile = "catalog.log"

// Consumer listens to the catalog.changed queue and appends every event to
// Dir/catalog.log.
type Consumer struct {
	URL    string
	Dir    string
	Logger *slog.Logger
}

// Run connects to RabbitMQ, declares the catalog.changed queue (durable),
// and consumes messages until ctx is cancelled. Lost connections are
// re-dialled with exponential backoff; malformed messages are rejected
// without requeue so the consumer keeps operating.
func (c *Consumer) Run(ctx context.Context) error {
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}

	backoff := time.Second
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			logger.Warn("catalog-consumer: failed to dial broker", "error", err, "retry_in", backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = c.consumeLoop(ctx, conn, logger)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Warn("catalog-consumer: consume loop ended; reconnecting", "error", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection, logger *slog.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return errors.Wrap(err, "channel open")
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		logger.Warn("catalog-consumer: set QoS failed", "error", err)
	}

	if _, err := ch.QueueDeclare(CatalogQueueName, true, false, false, false, nil); err != nil {
		return errors.Wrap(err, "queue declare")
	}

	msgs, err := ch.Consume(CatalogQueueName, "", false, false, false, false, nil)
	if err != nil {
		return errors.Wrap(err, "queue consume")
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := HandleMessage(c.Dir, d.Body); err != nil {
				logger.Error("catalog-consumer: handle message failed", "error", err)
				_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// HandleMessage decodes one CatalogChangedEvent and appends it to
// dir/catalog.log, creating the directory when needed.
func HandleMessage(dir string, body []byte) error {
	var ev CatalogChangedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return errors.Wrap(err, "unmarshal")
	}
	if ev.Entity == "" || ev.Key == "" || ev.Action == "" {
		return errors.New("incomplete catalog event")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "mkdir logs")
	}
	f, err := os.OpenFile(filepath.Join(dir, CatalogLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrap(err, "open log file")
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] Catalog changed | id=%s | entity=%s | key=%q | action=%s\n",
		ev.At, ev.ID, ev.Entity, ev.Key, ev.Action)
	if _, err := f.WriteString(line); err != nil {
		return errors.Wrap(err, "write log")
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
