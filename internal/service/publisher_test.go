package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/paralympics-iris/internal/logging"
	"github.com/iliyamo/paralympics-iris/internal/queue"
)

type recordingPublisher struct {
	events []queue.CatalogChangedEvent
	err    error
}

func (r *recordingPublisher) PublishCatalogChanged(_ context.Context, ev queue.CatalogChangedEvent) error {
	r.events = append(r.events, ev)
	return r.err
}

func TestNewPublisher(t *testing.T) {
	assert.IsType(t, NopPublisher{}, NewPublisher(""))
	assert.IsType(t, &AMQPPublisher{}, NewPublisher("amqp://localhost/"))
}

func TestNotifyCatalogChanged_Publishes(t *testing.T) {
	rec := &recordingPublisher{}
	NotifyCatalogChanged(context.Background(), rec, queue.EntityRegion, "FRA", queue.ActionCreated)

	require.Len(t, rec.events, 1)
	assert.Equal(t, "FRA", rec.events[0].Key)
	assert.Equal(t, queue.EntityRegion, rec.events[0].Entity)
	assert.NotEmpty(t, rec.events[0].ID)
}

func TestNotifyCatalogChanged_LogsFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(logging.Config{Service: "test", Format: "json"}, &buf)
	ctx := logging.WithContext(context.Background(), logger)

	NotifyCatalogChanged(ctx, &recordingPublisher{err: errors.New("broker down")}, queue.EntityEvent, "3", queue.ActionDeleted)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "catalog event not published", entry["msg"])
	assert.Equal(t, "deleted", entry["action"])
}

func TestNotifyCatalogChanged_NilPublisher(t *testing.T) {
	assert.NotPanics(t, func() {
		NotifyCatalogChanged(context.Background(), nil, queue.EntityEvent, "1", queue.ActionUpdated)
	})
}

func TestAMQPPublisher_DialTimeout(t *testing.T) {
	p := &AMQPPublisher{URL: "amqp://localhost/"}
	assert.Equal(t, defaultDialTimeout, p.dialTimeout(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	d := p.dialTimeout(ctx)
	assert.True(t, d > 0 && d <= 500*time.Millisecond, "got %s", d)

	p.DialTimeout = 100 * time.Millisecond
	assert.Equal(t, 100*time.Millisecond, p.dialTimeout(context.Background()))
}

func TestAMQPPublisher_SilentBrokerHonoursDeadline(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	var mu sync.Mutex
	var held []net.Conn
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			held = append(held, c)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		mu.Lock()
		defer mu.Unlock()
		for _, c := range held {
			_ = c.Close()
		}
	})

	p := &AMQPPublisher{URL: "amqp://guest:guest@" + ln.Addr().String() + "/"}
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	start := time.Now()
	err = p.PublishCatalogChanged(ctx, queue.NewCatalogChangedEvent(queue.EntityRegion, "FRA", queue.ActionCreated, start))
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}
