package datasync

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"time"

	"recruiter-platform/internal/domain"
	"recruiter-platform/pkg/logger"
	"recruiter-platform/pkg/queue"
	"recruiter-platform/pkg/security"
)

const (
	ReasonJSONParsing       = "JsonParsingError"
	ReasonValidation        = "ValidationError"
	ReasonForeignKeyPersist = "ForeignKeyConstraintPersistent"
	ReasonProcessing        = "ProcessingError"

	maxForeignKeyDeliveries = 5
	maxDeliveries           = 3
	foreignKeyBaseDelay     = 30 * time.Second
)

// Processor applies one message; *Service is the production implementation.
type Processor interface {
	Process(ctx context.Context, msg *domain.SyncMessage) error
}

// Consumer feeds deliveries to a handler; *queue.RabbitMQ implements it.
type Consumer interface {
	Consume(ctx context.Context, workers int, handler func(context.Context, queue.Delivery)) error
}

type Worker struct {
	processor   Processor
	consumer    Consumer
	concurrency int
	metrics     *Metrics
	log         *slog.Logger
}

func NewWorker(processor Processor, consumer Consumer, concurrency int, metrics *Metrics) *Worker {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Worker{
		processor:   processor,
		consumer:    consumer,
		concurrency: concurrency,
		metrics:     metrics,
		log:         logger.Log.With("component", "sync-worker"),
	}
}

// Run consumes until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info("Sync worker started", "concurrency", w.concurrency)
	err := w.consumer.Consume(ctx, w.concurrency, w.Handle)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	w.log.Info("Sync worker stopped")
	return nil
}

// ForeignKeyRetryDelay is 2^deliveryCount * 30s.
func ForeignKeyRetryDelay(deliveryCount int) time.Duration {
	return time.Duration(math.Pow(2, float64(deliveryCount))) * foreignKeyBaseDelay
}

// Handle settles exactly one delivery.
func (w *Worker) Handle(ctx context.Context, d queue.Delivery) {
	log := w.log.With("message_id", d.MessageID(), "delivery_count", d.DeliveryCount())

	var msg domain.SyncMessage
	if err := json.Unmarshal(d.Body(), &msg); err != nil {
		log.Error("Failed to decode sync message", "error", err)
		w.deadLetter(ctx, log, d, nil, ReasonJSONParsing, err.Error())
		return
	}
	if msg.EntityType == "" || msg.EntityID == "" || msg.SourceRegion == "" {
		log.Error("Sync message is missing required fields")
		w.deadLetter(ctx, log, d, &msg, ReasonValidation, "Missing required fields")
		return
	}

	log = log.With("sync_event_id", msg.SyncEventID, "entity_type", msg.EntityType, "entity_id", msg.EntityID)

	start := time.Now()
	err := w.processor.Process(ctx, &msg)
	w.metrics.observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		w.settle(log, d.Complete(ctx))
		w.metrics.outcome("completed")

	case errors.Is(err, domain.ErrForeignKeyConstraint):
		count := d.DeliveryCount()
		if count >= maxForeignKeyDeliveries {
			log.Error("Foreign key constraint persists, dead-lettering", "error", err)
			w.deadLetter(ctx, log, d, &msg, ReasonForeignKeyPersist, err.Error())
			return
		}
		delay := ForeignKeyRetryDelay(count)
		log.Warn("Foreign key constraint, retrying later", "delay", delay.String(), "error", err)
		w.settle(log, d.Abandon(ctx, delay))
		w.metrics.outcome("retried")

	default:
		if d.DeliveryCount() >= maxDeliveries {
			log.Error("Sync failed, dead-lettering", "error", err)
			w.deadLetter(ctx, log, d, &msg, ReasonProcessing, err.Error())
			return
		}
		log.Warn("Sync failed, retrying", "error", err)
		w.settle(log, d.Abandon(ctx, 0))
		w.metrics.outcome("retried")
	}
}

// deadLetter parks d and records the abandonment in the audit log. msg is nil
// when the body could not be decoded.
func (w *Worker) deadLetter(ctx context.Context, log *slog.Logger, d queue.Delivery, msg *domain.SyncMessage, reason, description string) {
	w.settle(log, d.DeadLetter(ctx, reason, description))
	w.metrics.outcome("dead_lettered")

	event := security.SecurityEvent{
		Event:       security.EventSyncMessageAbandoned,
		SubjectType: "sync_message",
		SubjectID:   d.MessageID(),
		Details: map[string]any{
			"reason":         reason,
			"delivery_count": d.DeliveryCount(),
		},
	}
	if msg != nil {
		event.Details["entity_type"] = msg.EntityType
		event.Details["entity_id"] = msg.EntityID
		event.Details["source_region"] = msg.SourceRegion
	}
	security.DefaultLogger().Log(ctx, event)
}

func (w *Worker) settle(log *slog.Logger, err error) {
	if err != nil {
		log.Error("Failed to settle delivery", "error", err)
	}
}
