package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dwikikusuma/shoping-pricing/internal/cart/domain"
	catalog "github.com/dwikikusuma/shoping-pricing/internal/catalog/domain"
	pricing "github.com/dwikikusuma/shoping-pricing/internal/pricing/domain"
	"github.com/dwikikusuma/shoping-pricing/internal/storage"
	"github.com/dwikikusuma/shoping-pricing/pkg/keylock"
	"github.com/dwikikusuma/shoping-pricing/pkg/logger"
)

// Result of a cart mutation. Products is the repriced category, or the
// whole catalog when Reset is set.
type Result struct {
	Cart     domain.Cart
	Products []catalog.Product
	Reset    bool
}

type Service struct {
	repo     CartRepo
	products ProductReader
	pricer   Pricer

	users  *keylock.Map
	log    *slog.Logger
	tracer trace.Tracer
	now    func() time.Time
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo CartRepo, products ProductReader, pricer Pricer, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		products: products,
		pricer:   pricer,
		users:    keylock.New(),
		log:      logger.Nop(),
		tracer:   otel.Tracer("github.com/dwikikusuma/shoping-pricing/internal/cart"),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) GetCart(ctx context.Context, userID string) (domain.Cart, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.Cart{}, ErrInvalidInput
	}
	return s.load(ctx, userID)
}

// AddUnit puts one unit of productID in the user's cart, creating the cart
// on first use, then raises the product's price and lowers its siblings'.
func (s *Service) AddUnit(ctx context.Context, userID, productID string) (res Result, err error) {
	userID, productID = strings.TrimSpace(userID), strings.TrimSpace(productID)
	if userID == "" || productID == "" {
		return Result{}, ErrInvalidInput
	}

	ctx, span := s.startSpan(ctx, "cart.AddUnit", userID, productID)
	defer func() { endSpan(span, err) }()

	unlock := s.users.Lock(userID)
	defer unlock()

	product, err := s.product(ctx, productID)
	if err != nil {
		return Result{}, err
	}

	cart, err := s.load(ctx, userID)
	switch {
	case errors.Is(err, ErrCartNotFound):
		cart = domain.New(userID, s.now())
	case err != nil:
		return Result{}, err
	}

	cart = cart.Increment(productID, s.now())
	if err := s.repo.Save(ctx, cart); err != nil {
		return Result{}, storage.Wrap("save cart", err)
	}

	updated, err := s.pricer.Adjust(ctx, product.Category, productID, pricing.Increase)
	if err != nil {
		return Result{Cart: cart}, s.partial(ctx, product.Category, productID, pricing.Increase, false, err)
	}

	return Result{Cart: cart, Products: updated}, nil
}

// RemoveUnit takes one unit of productID out of the user's cart and applies
// the opposite price move. When that empties the cart the whole catalog goes
// back to base prices and the result carries the reset catalog.
func (s *Service) RemoveUnit(ctx context.Context, userID, productID string) (res Result, err error) {
	userID, productID = strings.TrimSpace(userID), strings.TrimSpace(productID)
	if userID == "" || productID == "" {
		return Result{}, ErrInvalidInput
	}

	ctx, span := s.startSpan(ctx, "cart.RemoveUnit", userID, productID)
	defer func() { endSpan(span, err) }()

	unlock := s.users.Lock(userID)
	defer unlock()

	product, err := s.product(ctx, productID)
	if err != nil {
		return Result{}, err
	}

	cart, err := s.load(ctx, userID)
	if err != nil {
		return Result{}, err
	}

	// A missing line still counts as a removal: the cart is saved unchanged
	// and prices move as usual.
	if next, err := cart.Decrement(productID, s.now()); err == nil {
		cart = next
	} else if !errors.Is(err, domain.ErrNoSuchLine) {
		return Result{}, err
	}
	if err := s.repo.Save(ctx, cart); err != nil {
		return Result{}, storage.Wrap("save cart", err)
	}

	updated, err := s.pricer.Adjust(ctx, product.Category, productID, pricing.Decrease)
	if err != nil {
		return Result{Cart: cart}, s.partial(ctx, product.Category, productID, pricing.Decrease, false, err)
	}
	if !cart.IsEmpty() {
		return Result{Cart: cart, Products: updated}, nil
	}

	all, err := s.pricer.ResetAll(ctx)
	if err != nil {
		return Result{Cart: cart, Products: updated}, s.partial(ctx, product.Category, productID, pricing.Decrease, true, err)
	}
	s.log.InfoContext(ctx, "cart emptied, catalog reset",
		slog.String("user_id", userID),
		slog.Int("products", len(all)),
	)
	return Result{Cart: cart, Products: all, Reset: true}, nil
}

func (s *Service) product(ctx context.Context, productID string) (catalog.Product, error) {
	p, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return catalog.Product{}, err
		}
		return catalog.Product{}, storage.Wrap("get product", err)
	}
	return p, nil
}

func (s *Service) load(ctx context.Context, userID string) (domain.Cart, error) {
	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrCartNotFound) {
			return domain.Cart{}, err
		}
		return domain.Cart{}, storage.Wrap("load cart", err)
	}
	return cart, nil
}

func (s *Service) partial(ctx context.Context, category, productID string, dir pricing.Direction, resetAll bool, err error) error {
	s.log.ErrorContext(ctx, "cart saved, pricing failed",
		slog.String("category", category),
		slog.String("product_id", productID),
		slog.String("direction", dir.String()),
		slog.Bool("reset_all", resetAll),
		slog.Any("err", err),
	)
	return &PartialApplyError{
		Category:  category,
		ProductID: productID,
		Direction: dir,
		ResetAll:  resetAll,
		Err:       err,
	}
}

func (s *Service) startSpan(ctx context.Context, name, userID, productID string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("cart.user_id", userID),
		attribute.String("cart.product_id", productID),
	))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
