package orderstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nordkart/checkout-svc/internal/dal/interfaces/iorderrepo"
	"github.com/nordkart/checkout-svc/internal/dal/interfaces/ioutboxrepo"
	"github.com/nordkart/checkout-svc/internal/dal/postgres"
	"github.com/nordkart/checkout-svc/internal/dal/uow"
	"github.com/nordkart/checkout-svc/internal/service/models/order"
	"github.com/nordkart/checkout-svc/internal/service/models/outbox"
	"github.com/spf13/viper"
)

const (
	orderCreatedQueue = "checkout.order.created"
	defaultMaxRetries = 5
)

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() iorderrepo.IOrderRepository
	OutboxRepository() ioutboxrepo.IOutboxRepository
}

// OrderStore persists accepted checkouts. The order row, its product lines,
// and the order-created outbox event commit together, so an event exists for
// every stored order and for nothing else.
type OrderStore struct {
	pgClient *postgres.Client
}

func NewOrderStore(pgClient *postgres.Client) *OrderStore {
	return &OrderStore{
		pgClient: pgClient,
	}
}

func (s *OrderStore) newUOW() unitOfWork {
	return uow.NewUnitOfWork(s.pgClient)
}

// Create writes the order and queues the order-created event in one
// transaction.
func (s *OrderStore) Create(ctx context.Context, o order.Order) (*order.Order, error) {
	now := time.Now()
	o.CreatedAt = now
	o.UpdatedAt = now

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = work.Rollback(ctx)
	}()

	inserted, err := work.OrderRepository().Insert(ctx, o)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(inserted)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order event: %w", err)
	}

	maxRetries := viper.GetInt("rabbitmq.outbox.max_retries")
	if maxRetries == 0 {
		maxRetries = defaultMaxRetries
	}

	msg := outbox.Message{
		QueueName:   orderCreatedQueue,
		Payload:     payload,
		ContentType: "application/json",
		MaxRetries:  maxRetries,
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now,
	}
	if err := work.OutboxRepository().Insert(ctx, msg); err != nil {
		return nil, err
	}

	if err := work.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return inserted, nil
}
