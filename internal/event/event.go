// Package event publishes company and invoice change notifications to the
// message bus. Publishing is best effort: a failure is logged and never
// reaches the HTTP caller.
package event

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Huulamnguyen/biztime/internal/messaging"
)

// Type names a change notification.
type Type string

const (
	CompanyCreated Type = "company.created"
	CompanyUpdated Type = "company.updated"
	CompanyDeleted Type = "company.deleted"
	InvoiceCreated Type = "invoice.created"
	InvoiceUpdated Type = "invoice.updated"
	InvoiceDeleted Type = "invoice.deleted"
)

// HeaderType carries the event type on the bus message.
const HeaderType = "event-type"

// Event is the envelope written to the bus.
type Event struct {
	Type       Type            `json:"type"`
	Key        string          `json:"key"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data,omitempty"`
}

// Module provides the Emitter to Fx.
var Module = fx.Provide(NewEmitter)

// Emitter serializes events and hands them to the messaging client.
type Emitter struct {
	client messaging.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewEmitter builds an Emitter. A nil client disables publishing.
func NewEmitter(client messaging.Client, logger *zap.Logger) *Emitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Emitter{client: client, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Emit publishes an event of type typ for the resource identified by key.
func (e *Emitter) Emit(ctx context.Context, typ Type, key string, data any) {
	if e == nil || e.client == nil {
		return
	}

	ev := Event{Type: typ, Key: key, OccurredAt: e.now()}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			e.logger.Error("marshal event data", zap.String("type", string(typ)), zap.Error(err))
			return
		}
		ev.Data = raw
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		e.logger.Error("marshal event", zap.String("type", string(typ)), zap.Error(err))
		return
	}

	msg := messaging.Message{
		Key:     []byte(key),
		Value:   payload,
		Headers: map[string]string{HeaderType: string(typ)},
		Time:    ev.OccurredAt,
	}
	if err := e.client.Publish(ctx, msg); err != nil {
		e.logger.Error("publish event", zap.String("type", string(typ)), zap.String("key", key), zap.Error(err))
	}
}

// Decode parses a bus message back into an Event.
func Decode(msg messaging.Message) (Event, error) {
	var ev Event
	err := json.Unmarshal(msg.Value, &ev)
	return ev, err
}
