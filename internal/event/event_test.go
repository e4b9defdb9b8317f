package event_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Huulamnguyen/biztime/internal/event"
	"github.com/Huulamnguyen/biztime/internal/testutil"
)

func TestEmitRoundTrips(t *testing.T) {
	pub := testutil.NewInMemoryPublisher("biztime.events")
	emitter := event.NewEmitter(pub, zap.NewNop())

	emitter.Emit(context.Background(), event.InvoiceUpdated, "7", map[string]any{"id": 7, "amt": 500})

	msgs := pub.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "biztime.events", msgs[0].Topic)
	assert.Equal(t, "7", string(msgs[0].Key))
	assert.Equal(t, "invoice.updated", msgs[0].Headers[event.HeaderType])

	ev, err := event.Decode(msgs[0])
	require.NoError(t, err)
	assert.Equal(t, event.InvoiceUpdated, ev.Type)
	assert.Equal(t, "7", ev.Key)
	assert.WithinDuration(t, time.Now(), ev.OccurredAt, time.Minute)
	assert.JSONEq(t, `{"id":7,"amt":500}`, string(ev.Data))
}

func TestEmitWithoutDataOmitsField(t *testing.T) {
	pub := testutil.NewInMemoryPublisher("biztime.events")

	event.NewEmitter(pub, zap.NewNop()).Emit(context.Background(), event.CompanyDeleted, "apple", nil)

	msgs := pub.Messages()
	require.Len(t, msgs, 1)
	assert.NotContains(t, string(msgs[0].Value), `"data"`)
}

func TestEmitLogsPublishFailure(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	pub := testutil.NewInMemoryPublisher("biztime.events")
	pub.FailWith = errors.New("broker down")

	event.NewEmitter(pub, zap.New(core)).Emit(context.Background(), event.CompanyCreated, "apple", nil)

	assert.Empty(t, pub.Messages())
	assert.Equal(t, 1, logs.FilterMessage("publish event").Len())
}

func TestNilEmitterIsSafe(t *testing.T) {
	var emitter *event.Emitter
	assert.NotPanics(t, func() {
		emitter.Emit(context.Background(), event.CompanyCreated, "apple", nil)
	})
	assert.NotPanics(t, func() {
		event.NewEmitter(nil, nil).Emit(context.Background(), event.CompanyCreated, "apple", nil)
	})
}
