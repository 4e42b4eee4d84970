package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	catalog "github.com/dwikikusuma/shoping-pricing/internal/catalog/domain"
	"github.com/dwikikusuma/shoping-pricing/internal/pricing/domain"
	"github.com/dwikikusuma/shoping-pricing/internal/storage"
	"github.com/dwikikusuma/shoping-pricing/pkg/events"
	"github.com/dwikikusuma/shoping-pricing/pkg/keylock"
	"github.com/dwikikusuma/shoping-pricing/pkg/logger"
	"github.com/dwikikusuma/shoping-pricing/pkg/metrics"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrCategoryNotFound = errors.New("category not found")
)

const tracerName = "github.com/dwikikusuma/shoping-pricing/internal/pricing"

// Engine recomputes dynamic prices. Each category's read-modify-write runs
// under that category's lock; ResetAll excludes every category at once.
// Lock order is catalog, then category.
type Engine struct {
	store PriceStore
	rule  domain.Rule

	catalogMu  sync.RWMutex
	categories *keylock.Map

	pub     events.Publisher
	metrics *metrics.PricingMetrics
	log     *slog.Logger
	tracer  trace.Tracer
	now     func() time.Time
}

type Option func(*Engine)

func WithPublisher(p events.Publisher) Option {
	return func(e *Engine) { e.pub = p }
}

func WithMetrics(m *metrics.PricingMetrics) Option {
	return func(e *Engine) { e.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func New(store PriceStore, rule domain.Rule, opts ...Option) *Engine {
	e := &Engine{
		store:      store,
		rule:       rule,
		categories: keylock.New(),
		pub:        events.Nop(),
		log:        logger.Nop(),
		tracer:     otel.Tracer(tracerName),
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Adjust moves productID in dir and every other product of category in the
// opposite direction, then persists the category as one batch.
func (e *Engine) Adjust(ctx context.Context, category, productID string, dir domain.Direction) (out []catalog.Product, err error) {
	category = strings.TrimSpace(category)
	productID = strings.TrimSpace(productID)
	if category == "" || productID == "" || !dir.Valid() {
		return nil, ErrInvalidInput
	}

	ctx, span := e.tracer.Start(ctx, "pricing.Adjust", trace.WithAttributes(
		attribute.String("pricing.category", category),
		attribute.String("pricing.product_id", productID),
		attribute.String("pricing.direction", dir.String()),
	))
	defer func() {
		endSpan(span, err)
		e.countAdjust(dir, err)
	}()

	unlock := e.lockCategory(category)
	defer unlock()

	current, err := e.store.ListByCategory(ctx, category)
	if err != nil {
		return nil, storage.Wrap("list category", err)
	}
	if len(current) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, category)
	}

	updated := e.rule.Reprice(current, productID, dir)
	if err := e.store.BulkWrite(ctx, updated); err != nil {
		return nil, storage.Wrap("write category", err)
	}

	e.log.DebugContext(ctx, "category repriced",
		slog.String("category", category),
		slog.String("product_id", productID),
		slog.String("direction", dir.String()),
		slog.Int("products", len(updated)),
	)
	e.publish(ctx, events.PricesChanged{
		Reason:           events.ReasonAdjust,
		Category:         category,
		TriggerProductID: productID,
		Direction:        dir.String(),
	}, updated)

	return updated, nil
}

// ResetCategory puts every product of category back at base price.
func (e *Engine) ResetCategory(ctx context.Context, category string) (out []catalog.Product, err error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, ErrInvalidInput
	}

	ctx, span := e.tracer.Start(ctx, "pricing.ResetCategory",
		trace.WithAttributes(attribute.String("pricing.category", category)))
	defer func() {
		endSpan(span, err)
		e.countReset("category", err)
	}()

	unlock := e.lockCategory(category)
	defer unlock()

	current, err := e.store.ListByCategory(ctx, category)
	if err != nil {
		return nil, storage.Wrap("list category", err)
	}
	if len(current) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, category)
	}

	updated := domain.Reset(current)
	if err := e.store.BulkWrite(ctx, updated); err != nil {
		return nil, storage.Wrap("write category", err)
	}

	e.publish(ctx, events.PricesChanged{Reason: events.ReasonResetCategory, Category: category}, updated)
	return updated, nil
}

// ResetAll puts the whole catalog back at base price. No category adjustment
// can interleave with it. An empty catalog is not an error.
func (e *Engine) ResetAll(ctx context.Context) (out []catalog.Product, err error) {
	ctx, span := e.tracer.Start(ctx, "pricing.ResetAll")
	defer func() {
		endSpan(span, err)
		e.countReset("all", err)
	}()

	start := time.Now()
	e.catalogMu.Lock()
	defer e.catalogMu.Unlock()
	e.observeWait("catalog", start)

	current, err := e.store.ListAll(ctx)
	if err != nil {
		return nil, storage.Wrap("list catalog", err)
	}
	if len(current) == 0 {
		return []catalog.Product{}, nil
	}

	updated := domain.Reset(current)
	if err := e.store.BulkWrite(ctx, updated); err != nil {
		return nil, storage.Wrap("write catalog", err)
	}

	e.log.InfoContext(ctx, "catalog prices reset", slog.Int("products", len(updated)))
	e.publish(ctx, events.PricesChanged{Reason: events.ReasonResetAll}, updated)
	return updated, nil
}

func (e *Engine) lockCategory(category string) func() {
	start := time.Now()
	e.catalogMu.RLock()
	unlock := e.categories.Lock(category)
	e.observeWait("category", start)

	return func() {
		unlock()
		e.catalogMu.RUnlock()
	}
}

// publish runs while the caller still holds the write lock so that events
// for one category leave in commit order. Failures never undo the write.
func (e *Engine) publish(ctx context.Context, evt events.PricesChanged, products []catalog.Product) {
	evt.EventID = uuid.NewString()
	evt.OccurredAt = e.now()
	evt.Products = make([]events.PriceChange, len(products))
	for i, p := range products {
		evt.Products[i] = events.PriceChange{
			ProductID:    p.ID,
			Category:     p.Category,
			BasePrice:    p.BasePrice.String(),
			DynamicPrice: p.DynamicPrice.String(),
		}
	}

	if err := e.pub.Publish(ctx, evt); err != nil {
		e.log.WarnContext(ctx, "publish prices changed",
			slog.String("reason", evt.Reason),
			slog.String("key", evt.Key()),
			slog.Any("err", err),
		)
		if e.metrics != nil {
			e.metrics.PublishErrors.Inc()
		}
	}
}

func (e *Engine) observeWait(scope string, start time.Time) {
	if e.metrics == nil {
		return
	}
	e.metrics.LockWaitMS.WithLabelValues(scope).Observe(float64(time.Since(start).Microseconds()) / 1000)
}

func (e *Engine) countAdjust(dir domain.Direction, err error) {
	if e.metrics == nil {
		return
	}
	e.metrics.Adjustments.WithLabelValues(dir.String(), outcome(err)).Inc()
}

func (e *Engine) countReset(scope string, err error) {
	if e.metrics == nil {
		return
	}
	e.metrics.Resets.WithLabelValues(scope, outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrCategoryNotFound):
		return "not_found"
	case errors.Is(err, storage.ErrPersistence):
		return "persistence"
	default:
		return "error"
	}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
