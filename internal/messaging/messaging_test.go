package messaging

import (
	"context"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/Huulamnguyen/biztime/internal/config"
)

func TestFromKafkaCopiesPayload(t *testing.T) {
	key := []byte("apple")
	msg := kafka.Message{
		Topic:   "biztime.events",
		Key:     key,
		Value:   []byte(`{"type":"company.created"}`),
		Offset:  42,
		Time:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Headers: []kafka.Header{{Key: "event-type", Value: []byte("company.created")}},
	}

	out := fromKafka(msg)
	key[0] = 'X'

	assert.Equal(t, "apple", string(out.Key))
	assert.Equal(t, int64(42), out.Offset)
	assert.Equal(t, map[string]string{"event-type": "company.created"}, out.Headers)
}

func TestNewClientDisabledIsNoop(t *testing.T) {
	cfg := config.Config{Messaging: config.Messaging{Enabled: false, Driver: "noop", Kafka: config.Kafka{Topic: "biztime.events"}}}

	client, err := NewClient(fxtest.NewLifecycle(t), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "biztime.events", client.Topic())
	assert.NoError(t, client.Publish(context.Background(), Message{Value: []byte("x")}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, client.Consume(ctx, nil), context.Canceled)
}

func TestNewClientRejectsUnknownDriver(t *testing.T) {
	cfg := config.Config{Messaging: config.Messaging{Enabled: true, Driver: "nats"}}

	_, err := NewClient(fxtest.NewLifecycle(t), cfg, zap.NewNop())
	assert.Error(t, err)
}
