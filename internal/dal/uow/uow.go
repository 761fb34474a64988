package uow

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/nordkart/checkout-svc/internal/dal/interfaces/iorderrepo"
	"github.com/nordkart/checkout-svc/internal/dal/interfaces/ioutboxrepo"
	"github.com/nordkart/checkout-svc/internal/dal/postgres"
	orderrepo "github.com/nordkart/checkout-svc/internal/dal/repositories/order/postgres"
	outboxrepo "github.com/nordkart/checkout-svc/internal/dal/repositories/outbox/postgres"
)

type unitOfWork struct {
	client     *postgres.Client
	tx         pgx.Tx
	orderRepo  iorderrepo.IOrderRepository
	outboxRepo ioutboxrepo.IOutboxRepository
}

func (u *unitOfWork) OrderRepository() iorderrepo.IOrderRepository {
	return u.orderRepo
}

func (u *unitOfWork) OutboxRepository() ioutboxrepo.IOutboxRepository {
	return u.outboxRepo
}

func NewUnitOfWork(client *postgres.Client) *unitOfWork {
	return &unitOfWork{
		client:     client,
		orderRepo:  orderrepo.NewPostgresOrderRepository(client.Pool()),
		outboxRepo: outboxrepo.NewOutboxRepository(client.Pool()),
	}
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	tx, err := u.client.Pool().Begin(ctx)
	if err != nil {
		return err
	}

	u.tx = tx
	// Rebind repositories to the transaction
	u.orderRepo = orderrepo.NewPostgresOrderRepository(tx)
	u.outboxRepo = outboxrepo.NewOutboxRepository(tx)

	return nil
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Commit(ctx)
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Rollback(ctx)
}
