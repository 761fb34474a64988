package postgresrepo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/nordkart/checkout-svc/internal/dal/postgres"
	"github.com/nordkart/checkout-svc/internal/service/models/cart"
	"github.com/nordkart/checkout-svc/internal/service/models/order"
)

// OrderDal represents the order data access layer model.
type OrderDal struct {
	Id               int64
	GatewaySessionId string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ToModel converts OrderDal to the service layer Order model.
func (o *OrderDal) ToModel() *order.Order {
	return &order.Order{
		ID:               o.Id,
		GatewaySessionID: o.GatewaySessionId,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
		Products:         []cart.Item{},
	}
}

type PostgresOrderRepository struct {
	conn postgres.Querier
}

func NewPostgresOrderRepository(conn postgres.Querier) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
	}
}

// Insert writes the order row and its product lines, returning the order
// with its assigned id.
func (r *PostgresOrderRepository) Insert(ctx context.Context, o order.Order) (*order.Order, error) {
	query, args, err := sq.Insert("orders").
		Columns("gateway_session_id", "created_at", "updated_at").
		Values(o.GatewaySessionID, o.CreatedAt, o.UpdatedAt).
		Suffix("RETURNING id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, query, args...).Scan(&o.ID); err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	if len(o.Products) > 0 {
		builder := sq.Insert("order_products").
			Columns("order_id", "product_id", "quantity").
			PlaceholderFormat(sq.Dollar)
		for _, item := range o.Products {
			builder = builder.Values(o.ID, item.ProductID, item.Quantity)
		}

		query, args, err := builder.ToSql()
		if err != nil {
			return nil, fmt.Errorf("failed to build insert query: %w", err)
		}

		if _, err := r.conn.Exec(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("failed to insert order products: %w", err)
		}
	}

	return &o, nil
}

// Query retrieves orders with their product lines based on filter criteria.
func (r *PostgresOrderRepository) Query(
	ctx context.Context,
	filter *order.QueryOrdersModel,
) ([]order.Order, error) {
	builder := sq.Select(
		"id",
		"gateway_session_id",
		"created_at",
		"updated_at",
	).
		From("orders").
		OrderBy("id DESC").
		PlaceholderFormat(sq.Dollar)

	if len(filter.Ids) > 0 {
		builder = builder.Where(sq.Eq{"id": filter.Ids})
	}
	if len(filter.SessionIds) > 0 {
		builder = builder.Where(sq.Eq{"gateway_session_id": filter.SessionIds})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var result []order.Order
	for rows.Next() {
		var dal OrderDal
		err := rows.Scan(
			&dal.Id,
			&dal.GatewaySessionId,
			&dal.CreatedAt,
			&dal.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		result = append(result, *dal.ToModel())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	if len(result) == 0 {
		return []order.Order{}, nil
	}

	if err := r.attachProducts(ctx, result); err != nil {
		return nil, err
	}

	return result, nil
}

// attachProducts loads the cart lines for the given orders.
func (r *PostgresOrderRepository) attachProducts(ctx context.Context, orders []order.Order) error {
	ids := make([]int64, len(orders))
	byID := make(map[int64]*order.Order, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		byID[orders[i].ID] = &orders[i]
	}

	query, args, err := sq.Select("order_id", "product_id", "quantity").
		From("order_products").
		Where(sq.Eq{"order_id": ids}).
		OrderBy("id ASC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query order products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID int64
		var item cart.Item
		if err := rows.Scan(&orderID, &item.ProductID, &item.Quantity); err != nil {
			return fmt.Errorf("failed to scan order product: %w", err)
		}
		if o, ok := byID[orderID]; ok {
			o.Products = append(o.Products, item)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows iteration error: %w", err)
	}

	return nil
}
