package app

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dwikikusuma/shoping-pricing/internal/catalog/domain"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
)

type Service struct {
	repo ProductRepo
}

func NewService(repo ProductRepo) *Service {
	return &Service{
		repo: repo,
	}
}

// CreateProduct adds a product at its base price. An empty id gets a fresh UUID.
func (s *Service) CreateProduct(ctx context.Context, id, name, category string, basePrice decimal.Decimal) (domain.Product, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)
	category = strings.TrimSpace(category)

	if name == "" || category == "" || !basePrice.IsPositive() {
		return domain.Product{}, ErrInvalidInput
	}
	if id == "" {
		id = uuid.NewString()
	}

	p := domain.Product{
		ID:           id,
		Name:         name,
		Category:     category,
		BasePrice:    basePrice,
		DynamicPrice: basePrice,
	}

	return s.repo.Create(ctx, p)
}

func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Product{}, ErrInvalidInput
	}
	return s.repo.Get(ctx, id)
}

// ListProducts returns one category, or the whole catalog for an empty category.
func (s *Service) ListProducts(ctx context.Context, category string) ([]domain.Product, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return s.repo.ListAll(ctx)
	}
	return s.repo.ListByCategory(ctx, category)
}
