package postgresrepo

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/nordkart/checkout-svc/internal/dal/interfaces/iproductrepo"
	"github.com/nordkart/checkout-svc/internal/dal/postgres"
	"github.com/nordkart/checkout-svc/internal/service/models/product"
	"github.com/shopspring/decimal"
)

// ProductDal represents the product data access layer model. Price travels as
// text so a corrupted catalog value surfaces as a parse failure instead of a
// silent zero.
type ProductDal struct {
	Id          string
	Title       string
	Description *string
	Price       *string
	ImageUrl    *string
}

// ToModel converts ProductDal to the service layer Product model.
func (p *ProductDal) ToModel() (*product.Product, error) {
	if p.Price == nil {
		return nil, fmt.Errorf("product %s: %w", p.Id, product.ErrInvalidPrice)
	}
	price, err := decimal.NewFromString(*p.Price)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", p.Id, product.ErrInvalidPrice)
	}

	model := &product.Product{
		ID:    p.Id,
		Title: p.Title,
		Price: price,
	}
	if p.Description != nil {
		model.Description = *p.Description
	}
	if p.ImageUrl != nil {
		model.ImageURL = *p.ImageUrl
	}

	return model, nil
}

type PostgresProductRepository struct {
	conn postgres.Querier
}

func NewPostgresProductRepository(conn postgres.Querier) *PostgresProductRepository {
	return &PostgresProductRepository{
		conn: conn,
	}
}

// GetByID retrieves a single product by its identifier.
func (r *PostgresProductRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	query, args, err := sq.Select(
		"id",
		"title",
		"description",
		"price::text",
		"image_url",
	).
		From("products").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var dal ProductDal
	err = r.conn.QueryRow(ctx, query, args...).Scan(
		&dal.Id,
		&dal.Title,
		&dal.Description,
		&dal.Price,
		&dal.ImageUrl,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("product %s: %w", id, iproductrepo.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return dal.ToModel()
}
