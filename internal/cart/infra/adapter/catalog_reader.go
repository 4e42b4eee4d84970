package adapter

import (
	"context"
	"errors"

	cartapp "github.com/dwikikusuma/shoping-pricing/internal/cart/app"
	catalogapp "github.com/dwikikusuma/shoping-pricing/internal/catalog/app"
	"github.com/dwikikusuma/shoping-pricing/internal/catalog/domain"
)

// CatalogServiceReader lets the cart resolve products through the catalog
// service.
type CatalogServiceReader struct {
	svc *catalogapp.Service
}

func NewCatalogServiceReader(svc *catalogapp.Service) *CatalogServiceReader {
	return &CatalogServiceReader{svc: svc}
}

func (r *CatalogServiceReader) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	p, err := r.svc.GetProduct(ctx, productID)
	if errors.Is(err, catalogapp.ErrNotFound) || errors.Is(err, catalogapp.ErrInvalidInput) {
		return domain.Product{}, cartapp.ErrProductNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}
