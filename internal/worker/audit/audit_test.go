package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Huulamnguyen/biztime/internal/event"
	"github.com/Huulamnguyen/biztime/internal/messaging"
	"github.com/Huulamnguyen/biztime/internal/testutil"
)

func TestHandlerLogsDecodedEvent(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	pub := testutil.NewInMemoryPublisher("biztime.events")
	event.NewEmitter(pub, zap.NewNop()).Emit(context.Background(), event.CompanyCreated, "apple",
		map[string]string{"code": "apple"})

	msgs := pub.Messages()
	require.Len(t, msgs, 1)

	err := Handler(zap.New(core))(context.Background(), msgs[0])

	require.NoError(t, err)
	entries := logs.FilterMessage("audit").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "company.created", fields["type"])
	assert.Equal(t, "apple", fields["key"])
	assert.JSONEq(t, `{"code":"apple"}`, fields["data"].(string))
}

func TestHandlerRejectsGarbage(t *testing.T) {
	err := Handler(zap.NewNop())(context.Background(), messaging.Message{Value: []byte("not json"), Offset: 7})

	assert.ErrorContains(t, err, "offset 7")
}

func TestRegistrationsCoverEveryType(t *testing.T) {
	regs := NewRegistrations(zap.NewNop())

	require.Len(t, regs, len(Types))
	for i, r := range regs {
		assert.Equal(t, Types[i], r.Type)
		assert.NotNil(t, r.Handler)
	}
}
