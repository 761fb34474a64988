package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nordkart/checkout-svc/internal/service/models/outbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockOutboxRepo struct {
	pending    []outbox.Message
	pendingErr error

	deleted []int64

	retried       []int64
	retryCounts   []int
	retryErrors   []string
	nextRetryAts  []time.Time
	updateRetries error
}

func (m *mockOutboxRepo) Insert(_ context.Context, _ outbox.Message) error {
	return nil
}

func (m *mockOutboxRepo) GetPendingMessages(_ context.Context, _ int) ([]outbox.Message, error) {
	return m.pending, m.pendingErr
}

func (m *mockOutboxRepo) Delete(_ context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockOutboxRepo) UpdateRetry(
	_ context.Context,
	id int64,
	retryCount int,
	lastError string,
	nextRetryAt time.Time,
) error {
	m.retried = append(m.retried, id)
	m.retryCounts = append(m.retryCounts, retryCount)
	m.retryErrors = append(m.retryErrors, lastError)
	m.nextRetryAts = append(m.nextRetryAts, nextRetryAt)
	return m.updateRetries
}

type mockPublisher struct {
	err error

	queues       []string
	contentTypes []string
	bodies       [][]byte
}

func (m *mockPublisher) Publish(queueName string, contentType string, body []byte) error {
	m.queues = append(m.queues, queueName)
	m.contentTypes = append(m.contentTypes, contentType)
	m.bodies = append(m.bodies, body)
	return m.err
}

func TestProcessMessages_PublishesAndDeletes(t *testing.T) {
	repo := &mockOutboxRepo{pending: []outbox.Message{
		{
			ID:          7,
			QueueName:   "checkout.order.created",
			Payload:     []byte(`{"id":7}`),
			ContentType: "application/json",
		},
	}}
	pub := &mockPublisher{}

	w := NewWorker(repo, pub)
	w.processMessages(context.Background())

	require.Len(t, pub.queues, 1)
	assert.Equal(t, "checkout.order.created", pub.queues[0])
	assert.Equal(t, "application/json", pub.contentTypes[0])
	assert.Equal(t, []byte(`{"id":7}`), pub.bodies[0])

	assert.Equal(t, []int64{7}, repo.deleted)
	assert.Empty(t, repo.retried)
}

func TestProcessMessages_PublishFailureKeepsRow(t *testing.T) {
	repo := &mockOutboxRepo{pending: []outbox.Message{
		{ID: 3, QueueName: "checkout.order.created", RetryCount: 0},
	}}
	pub := &mockPublisher{err: errors.New("channel closed")}

	w := NewWorker(repo, pub)
	before := time.Now()
	w.processMessages(context.Background())

	assert.Empty(t, repo.deleted, "undelivered event must stay in the outbox")

	require.Len(t, repo.retried, 1)
	assert.Equal(t, int64(3), repo.retried[0])
	assert.Equal(t, 1, repo.retryCounts[0])
	assert.Equal(t, "channel closed", repo.retryErrors[0])

	// First retry backs off by one retry interval.
	assert.WithinDuration(t, before.Add(w.retryInterval), repo.nextRetryAts[0], time.Second)
}

func TestProcessMessages_BackoffDoublesPerRetry(t *testing.T) {
	repo := &mockOutboxRepo{pending: []outbox.Message{
		{ID: 4, QueueName: "checkout.order.created", RetryCount: 2},
	}}
	pub := &mockPublisher{err: errors.New("queue declare failed")}

	w := NewWorker(repo, pub)
	before := time.Now()
	w.processMessages(context.Background())

	require.Len(t, repo.retryCounts, 1)
	assert.Equal(t, 3, repo.retryCounts[0])
	assert.WithinDuration(t, before.Add(4*w.retryInterval), repo.nextRetryAts[0], time.Second)
}

func TestProcessMessages_NoPending(t *testing.T) {
	repo := &mockOutboxRepo{}
	pub := &mockPublisher{}

	w := NewWorker(repo, pub)
	w.processMessages(context.Background())

	assert.Empty(t, pub.queues)
	assert.Empty(t, repo.deleted)
	assert.Empty(t, repo.retried)
}
