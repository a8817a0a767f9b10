package event_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phatnt99/shelfwise/internal/event"
	"github.com/phatnt99/shelfwise/internal/storage/mq"
)

// fakeConsumer records handlers and lets tests push payloads through them.
type fakeConsumer struct {
	handlers map[string]mq.HandlerFunc
	ran      bool
}

func newFakeConsumer() *fakeConsumer {
	return &fakeConsumer{handlers: map[string]mq.HandlerFunc{}}
}

func (c *fakeConsumer) RegisterHandler(topic string, handler mq.HandlerFunc) error {
	c.handlers[topic] = handler
	return nil
}

func (c *fakeConsumer) Run(_ context.Context) (mq.CleanupFunc, error) {
	c.ran = true
	return func() {}, nil
}

func (c *fakeConsumer) deliver(t *testing.T, topic string, ev any) error {
	t.Helper()
	payload, err := json.Marshal(ev)
	require.NoError(t, err)

	handler, ok := c.handlers[topic]
	require.True(t, ok, "no handler for topic %s", topic)
	return handler(context.Background(), topic, payload)
}

func TestEventServiceRun(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("Should register handlers for both topics", func(t *testing.T) {
		consumer := newFakeConsumer()
		svc := event.New(logger, consumer)

		cleanup, err := svc.Run(context.Background())
		require.NoError(t, err)
		defer cleanup()

		assert.True(t, consumer.ran)
		assert.Contains(t, consumer.handlers, event.TopicProductCreated)
		assert.Contains(t, consumer.handlers, event.TopicStockAdjusted)
	})

	t.Run("Should handle well-formed events", func(t *testing.T) {
		consumer := newFakeConsumer()
		svc := event.New(logger, consumer)

		cleanup, err := svc.Run(context.Background())
		require.NoError(t, err)
		defer cleanup()

		err = consumer.deliver(t, event.TopicProductCreated, event.ProductCreatedEvent{
			ProductID: 1, Name: "Milk", Barcode: "4001", Stock: 2,
		})
		assert.NoError(t, err)

		err = consumer.deliver(t, event.TopicStockAdjusted, event.StockAdjustedEvent{
			ProductID: 1, Name: "Milk", Barcode: "4001", Stock: 0,
		})
		assert.NoError(t, err)
	})

	t.Run("Should reject malformed payloads", func(t *testing.T) {
		consumer := newFakeConsumer()
		svc := event.New(logger, consumer)

		cleanup, err := svc.Run(context.Background())
		require.NoError(t, err)
		defer cleanup()

		handler := consumer.handlers[event.TopicProductCreated]
		assert.Error(t, handler(context.Background(), event.TopicProductCreated, []byte("not json")))
	})
}
