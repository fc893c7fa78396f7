package messaging

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStamp(t *testing.T) {
	t.Run("should add an event id and time without touching the input", func(t *testing.T) {
		in := Message{Headers: map[string]string{HeaderEventType: "order.created"}}
		out := Stamp(in)

		_, err := uuid.Parse(out.Headers[HeaderEventID])
		require.NoError(t, err)
		assert.Equal(t, "order.created", out.EventType())
		assert.False(t, out.Time.IsZero())
		assert.NotContains(t, in.Headers, HeaderEventID)
	})

	t.Run("should keep an existing event id", func(t *testing.T) {
		at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		out := Stamp(Message{Headers: map[string]string{HeaderEventID: "fixed"}, Time: at})
		assert.Equal(t, "fixed", out.Headers[HeaderEventID])
		assert.Equal(t, at, out.Time)
	})
}

func TestFromKafka(t *testing.T) {
	msg := fromKafka(kafka.Message{
		Topic:   "hiretrack.orders",
		Key:     []byte("order-1"),
		Value:   []byte(`{"id":1}`),
		Offset:  12,
		Headers: []kafka.Header{{Key: HeaderEventType, Value: []byte("order.deleted")}},
	})

	assert.Equal(t, "hiretrack.orders", msg.Topic)
	assert.Equal(t, "order.deleted", msg.EventType())
	assert.Equal(t, int64(12), msg.Offset)
	assert.Equal(t, []byte("order-1"), msg.Key)

	assert.Empty(t, fromKafka(kafka.Message{}).EventType())
}

func TestNoop(t *testing.T) {
	client := Noop("hiretrack.orders")
	assert.Equal(t, "hiretrack.orders", client.Topic())
	assert.NoError(t, client.Publish(context.Background(), Message{}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, client.Consume(ctx, nil), context.Canceled)
}
