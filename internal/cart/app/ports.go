package app

import (
	"context"

	"github.com/dwikikusuma/shoping-pricing/internal/cart/domain"
	catalog "github.com/dwikikusuma/shoping-pricing/internal/catalog/domain"
	pricing "github.com/dwikikusuma/shoping-pricing/internal/pricing/domain"
)

// CartRepo is the Cart Store. Get returns ErrCartNotFound for a user who
// never added anything.
type CartRepo interface {
	Get(ctx context.Context, userID string) (domain.Cart, error)
	Save(ctx context.Context, cart domain.Cart) error
}

// ProductReader returns ErrProductNotFound for unknown ids.
type ProductReader interface {
	GetProduct(ctx context.Context, productID string) (catalog.Product, error)
}

type Pricer interface {
	Adjust(ctx context.Context, category, productID string, dir pricing.Direction) ([]catalog.Product, error)
	ResetAll(ctx context.Context) ([]catalog.Product, error)
}
