package store

import (
	"context"

	"github.com/shopspring/decimal"

	"product-service/internal/domain"
)

// ProductStorer defines the database operations for products. All finders
// are exact-match only and return eagerly materialized slices ordered by id;
// callers take len() for the count and range over the same slice.
type ProductStorer interface {
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetProductByID(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	ListProductsByName(ctx context.Context, name string) ([]domain.Product, error)
	ListProductsByAvailability(ctx context.Context, available bool) ([]domain.Product, error)
	ListProductsByCategory(ctx context.Context, category domain.Category) ([]domain.Product, error)
	ListProductsByPrice(ctx context.Context, price decimal.Decimal) ([]domain.Product, error)
}
