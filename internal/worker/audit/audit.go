// Package audit records every company and invoice change published on the
// event topic.
package audit

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Huulamnguyen/biztime/internal/event"
	"github.com/Huulamnguyen/biztime/internal/messaging"
	"github.com/Huulamnguyen/biztime/internal/worker"
)

var workerTracer = otel.Tracer("github.com/Huulamnguyen/biztime/worker/audit")

// Types lists the event types the audit log subscribes to.
var Types = []event.Type{
	event.CompanyCreated,
	event.CompanyUpdated,
	event.CompanyDeleted,
	event.InvoiceCreated,
	event.InvoiceUpdated,
	event.InvoiceDeleted,
}

// Module registers the audit handlers with the worker engine.
var Module = fx.Module("worker_audit",
	fx.Provide(
		fx.Annotate(
			NewRegistrations,
			fx.ResultTags(`group:"worker.handlers,flatten"`),
		),
	),
)

// NewRegistrations binds Handle to each audited event type.
func NewRegistrations(logger *zap.Logger) []worker.HandlerRegistration {
	handle := Handler(logger)
	regs := make([]worker.HandlerRegistration, 0, len(Types))
	for _, typ := range Types {
		regs = append(regs, worker.HandlerRegistration{Type: typ, Handler: handle})
	}
	return regs
}

// Handler decodes an event and writes one audit log line for it. Undecodable
// messages are reported and left uncommitted.
func Handler(logger *zap.Logger) messaging.Handler {
	return func(ctx context.Context, msg messaging.Message) error {
		_, span := workerTracer.Start(ctx, "worker.audit.process", trace.WithAttributes(
			attribute.String("messaging.destination", msg.Topic),
			attribute.Int64("messaging.offset", msg.Offset),
		))
		defer span.End()

		ev, err := event.Decode(msg)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "decode error")
			logger.Error("failed to decode event", zap.Int64("offset", msg.Offset), zap.Error(err))
			return fmt.Errorf("decode event at offset %d: %w", msg.Offset, err)
		}

		span.SetAttributes(attribute.String("event.type", string(ev.Type)))
		logger.Info("audit",
			zap.String("type", string(ev.Type)),
			zap.String("key", ev.Key),
			zap.Time("occurred_at", ev.OccurredAt),
			zap.ByteString("data", ev.Data),
		)
		return nil
	}
}
