package app

import (
	"context"

	catalog "github.com/dwikikusuma/shoping-pricing/internal/catalog/domain"
)

// PriceStore is the slice of the Product Store the engine needs. BulkWrite
// must be all-or-nothing.
type PriceStore interface {
	ListByCategory(ctx context.Context, category string) ([]catalog.Product, error)
	ListAll(ctx context.Context) ([]catalog.Product, error)
	BulkWrite(ctx context.Context, products []catalog.Product) error
}
