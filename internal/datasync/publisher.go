package datasync

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"recruiter-platform/internal/domain"
	"recruiter-platform/pkg/logger"
	"recruiter-platform/pkg/queue"

	"github.com/google/uuid"
)

// BatchPublisher is satisfied by *queue.RabbitMQ.
type BatchPublisher interface {
	PublishBatch(ctx context.Context, msgs []queue.Message) error
}

// Publisher announces changes written in the local region.
type Publisher struct {
	pub     BatchPublisher
	region  string
	timeout time.Duration
	now     func() time.Time
	log     *slog.Logger
}

func NewPublisher(pub BatchPublisher, region string) *Publisher {
	return &Publisher{
		pub:     pub,
		region:  region,
		timeout: 5 * time.Second,
		now:     func() time.Time { return time.Now().UTC() },
		log:     logger.Log.With("component", "sync-publisher"),
	}
}

// NewMessage builds a message for a change in the local region.
func (p *Publisher) NewMessage(entityType, entityID, table string, deleted bool) domain.SyncMessage {
	msg := domain.SyncMessage{
		SyncEventID:     uuid.NewString(),
		EntityType:      entityType,
		EntityID:        entityID,
		SourceRegion:    p.region,
		ChangeTimestamp: p.now(),
		IsDeleted:       deleted,
	}
	if table != "" {
		msg.TableName = &table
	}
	return msg
}

// NotifyChanged publishes one change. Failures are logged only; the write
// that triggered it has already committed.
func (p *Publisher) NotifyChanged(ctx context.Context, entityType, entityID, table string, deleted bool) {
	p.NotifyChangedBatch(ctx, []domain.SyncChange{{
		EntityType: entityType, EntityID: entityID, Table: table, Deleted: deleted,
	}})
}

// NotifyChangedBatch publishes changes in one confirm round.
func (p *Publisher) NotifyChangedBatch(ctx context.Context, changes []domain.SyncChange) {
	if len(changes) == 0 {
		return
	}
	msgs := make([]domain.SyncMessage, 0, len(changes))
	for _, c := range changes {
		msgs = append(msgs, p.NewMessage(c.EntityType, c.EntityID, c.Table, c.Deleted))
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	if err := p.PublishBatch(ctx, msgs); err != nil {
		p.log.Error("Failed to publish sync messages",
			"entity_type", changes[0].EntityType, "entity_id", changes[0].EntityID, "count", len(changes), "error", err)
	}
}

// PublishBatch publishes msgs in one confirm round.
func (p *Publisher) PublishBatch(ctx context.Context, msgs []domain.SyncMessage) error {
	out := make([]queue.Message, 0, len(msgs))
	for _, m := range msgs {
		qm, err := toQueueMessage(m)
		if err != nil {
			return err
		}
		out = append(out, qm)
	}
	return p.pub.PublishBatch(ctx, out)
}

func toQueueMessage(m domain.SyncMessage) (queue.Message, error) {
	body, err := json.Marshal(m)
	if err != nil {
		return queue.Message{}, fmt.Errorf("encode sync message: %w", err)
	}
	return queue.Message{
		ID:      uuid.NewString(),
		Subject: m.EntityType,
		Body:    body,
		Headers: map[string]interface{}{
			"EntityType":   m.EntityType,
			"EntityId":     m.EntityID,
			"SourceRegion": m.SourceRegion,
			"IsDeleted":    strconv.FormatBool(m.IsDeleted),
		},
	}, nil
}

var _ domain.SyncNotifier = (*Publisher)(nil)
