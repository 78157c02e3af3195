package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"easybudget/internal/amqp"
	"easybudget/internal/log"
	"easybudget/internal/storage"
)

// AuditConsumer is the queue side of the audit pipeline.
type AuditConsumer interface {
	ConsumeAuditEvents(ctx context.Context, handler amqp.AuditHandler) error
}

// AuditWorker moves audit events from the queue into durable storage.
type AuditWorker struct {
	consumer AuditConsumer
	sink     storage.AuditSink
	now      func() time.Time

	stored atomic.Int64
}

func NewAuditWorker(consumer AuditConsumer, sink storage.AuditSink) *AuditWorker {
	return &AuditWorker{
		consumer: consumer,
		sink:     sink,
		now:      time.Now,
	}
}

// Run consumes until ctx is cancelled.
func (w *AuditWorker) Run(ctx context.Context) error {
	slog.InfoContext(ctx, "Audit worker started",
		log.FieldComponent, log.ComponentWorker,
		log.FieldOperation, log.OpStartup)

	err := w.consumer.ConsumeAuditEvents(ctx, w.HandleAuditEvent)

	slog.InfoContext(ctx, "Audit worker stopped",
		log.FieldComponent, log.ComponentWorker,
		log.FieldOperation, log.OpShutdown,
		"stored", w.stored.Load())
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// HandleAuditEvent stores one message. An error makes the consumer requeue it.
func (w *AuditWorker) HandleAuditEvent(ctx context.Context, msg *amqp.AuditEventMessage) error {
	id, err := w.sink.AppendAuditEvent(ctx, storage.AuditEvent{
		SessionID:   msg.SessionID,
		Description: msg.Description,
		LoggedAt:    msg.LoggedAt,
		ReceivedAt:  w.now(),
	})
	if err != nil {
		return fmt.Errorf("store audit event: %w", err)
	}
	w.stored.Add(1)

	slog.DebugContext(ctx, "Audit event stored",
		log.FieldComponent, log.ComponentWorker,
		log.FieldSessionID, msg.SessionID,
		"audit_id", id)
	return nil
}

// Stored returns how many events this worker has persisted.
func (w *AuditWorker) Stored() int64 {
	return w.stored.Load()
}
