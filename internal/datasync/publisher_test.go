package datasync_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"recruiter-platform/internal/datasync"
	"recruiter-platform/internal/domain"
	"recruiter-platform/pkg/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	batches [][]queue.Message
	err     error
}

func (r *recordingPublisher) PublishBatch(_ context.Context, msgs []queue.Message) error {
	r.batches = append(r.batches, msgs)
	return r.err
}

func TestPublisher_NotifyChanged(t *testing.T) {
	rec := &recordingPublisher{}
	p := datasync.NewPublisher(rec, "US")

	p.NotifyChanged(context.Background(), "JobPost", "j1", "job_posts", false)

	require.Len(t, rec.batches, 1)
	require.Len(t, rec.batches[0], 1)
	qm := rec.batches[0][0]
	assert.Equal(t, "JobPost", qm.Subject)
	assert.NotEmpty(t, qm.ID)
	assert.Equal(t, "j1", qm.Headers["EntityId"])
	assert.Equal(t, "US", qm.Headers["SourceRegion"])
	assert.Equal(t, "false", qm.Headers["IsDeleted"])

	var msg domain.SyncMessage
	require.NoError(t, json.Unmarshal(qm.Body, &msg))
	assert.Equal(t, "JobPost", msg.EntityType)
	assert.Equal(t, "US", msg.SourceRegion)
	require.NotNil(t, msg.TableName)
	assert.Equal(t, "job_posts", *msg.TableName)
	assert.NotEmpty(t, msg.SyncEventID)
	assert.False(t, msg.ChangeTimestamp.IsZero())

	var wire map[string]any
	require.NoError(t, json.Unmarshal(qm.Body, &wire))
	assert.Contains(t, wire, "SyncEventId")
	assert.Contains(t, wire, "EntityId")
}

func TestPublisher_NotifyChangedSwallowsErrors(t *testing.T) {
	rec := &recordingPublisher{err: errors.New("broker down")}
	p := datasync.NewPublisher(rec, "EU")

	assert.NotPanics(t, func() {
		p.NotifyChanged(context.Background(), "Candidate", "c1", "", true)
	})
	require.Len(t, rec.batches, 1)
}

func TestPublisher_PublishBatch(t *testing.T) {
	rec := &recordingPublisher{}
	p := datasync.NewPublisher(rec, "IN")

	msgs := []domain.SyncMessage{
		p.NewMessage("JobPost", "j1", "", false),
		p.NewMessage("JobPost", "j2", "", true),
	}
	require.NoError(t, p.PublishBatch(context.Background(), msgs))
	require.Len(t, rec.batches, 1)
	assert.Len(t, rec.batches[0], 2)
	assert.Nil(t, msgs[0].TableName)
	assert.NotEqual(t, msgs[0].SyncEventID, msgs[1].SyncEventID)
}

func TestPublisher_NotifyChangedBatch(t *testing.T) {
	rec := &recordingPublisher{}
	p := datasync.NewPublisher(rec, "US")

	p.NotifyChangedBatch(context.Background(), []domain.SyncChange{
		{EntityType: "JobApplication", EntityID: "a1", Table: "job_applications"},
		{EntityType: "JobApplicationStep", EntityID: "s1", Table: "job_application_steps"},
		{EntityType: "JobApplicationStep", EntityID: "s2", Table: "job_application_steps"},
	})
	require.Len(t, rec.batches, 1)
	require.Len(t, rec.batches[0], 3)
	assert.Equal(t, "JobApplication", rec.batches[0][0].Subject)
	assert.Equal(t, "s2", rec.batches[0][2].Headers["EntityId"])

	p.NotifyChangedBatch(context.Background(), nil)
	assert.Len(t, rec.batches, 1)
}
