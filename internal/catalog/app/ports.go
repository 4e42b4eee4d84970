package app

import (
	"context"

	"github.com/dwikikusuma/shoping-pricing/internal/catalog/domain"
)

// ProductRepo is the Product Store. BulkWrite must apply every product or
// none; no reader may observe a half-written batch.
type ProductRepo interface {
	Create(ctx context.Context, p domain.Product) (domain.Product, error)
	Get(ctx context.Context, id string) (domain.Product, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Product, error)
	ListAll(ctx context.Context) ([]domain.Product, error)
	BulkWrite(ctx context.Context, products []domain.Product) error
}
