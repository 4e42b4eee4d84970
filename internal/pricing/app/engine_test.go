package app_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	catalog "github.com/dwikikusuma/shoping-pricing/internal/catalog/domain"
	"github.com/dwikikusuma/shoping-pricing/internal/catalog/infra/memdb"
	"github.com/dwikikusuma/shoping-pricing/internal/pricing/app"
	"github.com/dwikikusuma/shoping-pricing/internal/pricing/domain"
	"github.com/dwikikusuma/shoping-pricing/internal/storage"
	"github.com/dwikikusuma/shoping-pricing/pkg/events"
	"github.com/dwikikusuma/shoping-pricing/pkg/metrics"
)

// trackingStore counts how many read-modify-write cycles are open per
// category and across the catalog.
type trackingStore struct {
	*memdb.ProductRepo

	mu          sync.Mutex
	open        map[string]int
	openAll     int
	maxPerCat   int
	overlapping bool
	delay       time.Duration

	failWrite error
}

func newTrackingStore(t *testing.T, seed ...catalog.Product) *trackingStore {
	t.Helper()
	repo, err := memdb.NewProductRepo()
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	for _, p := range seed {
		if _, err := repo.Create(context.Background(), p); err != nil {
			t.Fatalf("seed %s: %v", p.ID, err)
		}
	}
	return &trackingStore{ProductRepo: repo, open: map[string]int{}}
}

func (s *trackingStore) enter(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if category == "" {
		if s.openAll > 0 || len(s.open) > 0 {
			s.overlapping = true
		}
		s.openAll++
		return
	}
	if s.openAll > 0 {
		s.overlapping = true
	}
	s.open[category]++
	if s.open[category] > s.maxPerCat {
		s.maxPerCat = s.open[category]
	}
}

func (s *trackingStore) leave(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if category == "" {
		s.openAll--
		return
	}
	s.open[category]--
	if s.open[category] == 0 {
		delete(s.open, category)
	}
}

func (s *trackingStore) ListByCategory(ctx context.Context, category string) ([]catalog.Product, error) {
	s.enter(category)
	time.Sleep(s.delay)
	return s.ProductRepo.ListByCategory(ctx, category)
}

func (s *trackingStore) ListAll(ctx context.Context) ([]catalog.Product, error) {
	s.enter("")
	time.Sleep(s.delay)
	return s.ProductRepo.ListAll(ctx)
}

func (s *trackingStore) BulkWrite(ctx context.Context, products []catalog.Product) error {
	defer s.leave(s.writer(products))
	if s.failWrite != nil {
		return s.failWrite
	}
	return s.ProductRepo.BulkWrite(ctx, products)
}

// writer names the cycle a batch closes: "" for a catalog reset, otherwise
// the category. Any overlap has already been flagged by enter.
func (s *trackingStore) writer(products []catalog.Product) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.openAll > 0 || len(products) == 0 {
		return ""
	}
	return products[0].Category
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.PricesChanged
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, evt events.PricesChanged) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func prod(id, category, base string) catalog.Product {
	price := decimal.RequireFromString(base)
	return catalog.Product{ID: id, Name: id, Category: category, BasePrice: price, DynamicPrice: price}
}

func dynamic(products []catalog.Product) map[string]string {
	out := map[string]string{}
	for _, p := range products {
		out[p.ID] = p.DynamicPrice.String()
	}
	return out
}

func TestEngine_AdjustRepricesCategory(t *testing.T) {
	ctx := context.Background()
	store := newTrackingStore(t, prod("A", "shoes", "100"), prod("B", "shoes", "100"), prod("C", "hats", "100"))
	pub := &recordingPublisher{}
	engine := app.New(store, domain.DefaultRule(), app.WithPublisher(pub))

	got, err := engine.Adjust(ctx, "shoes", "A", domain.Increase)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"A": "120", "B": "80"}, dynamic(got)); diff != "" {
		t.Fatalf("returned prices (-want +got):\n%s", diff)
	}

	all, _ := store.ListAll(ctx)
	if diff := cmp.Diff(map[string]string{"A": "120", "B": "80", "C": "100"}, dynamic(all)); diff != "" {
		t.Fatalf("stored prices (-want +got):\n%s", diff)
	}

	if len(pub.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(pub.events))
	}
	evt := pub.events[0]
	if evt.Reason != events.ReasonAdjust || evt.Category != "shoes" || evt.TriggerProductID != "A" || evt.Direction != "increase" {
		t.Fatalf("unexpected event: %+v", evt)
	}
	if evt.EventID == "" || len(evt.Products) != 2 {
		t.Fatalf("unexpected event payload: %+v", evt)
	}
}

func TestEngine_AdjustUnknownTriggerMovesEverySibling(t *testing.T) {
	store := newTrackingStore(t, prod("A", "shoes", "100"), prod("B", "shoes", "100"))
	engine := app.New(store, domain.DefaultRule())

	got, err := engine.Adjust(context.Background(), "shoes", "ghost", domain.Increase)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"A": "80", "B": "80"}, dynamic(got)); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestEngine_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid input", func(t *testing.T) {
		engine := app.New(newTrackingStore(t), domain.DefaultRule())
		for _, tc := range []struct {
			category, id string
			dir          domain.Direction
		}{
			{"", "A", domain.Increase},
			{"shoes", " ", domain.Increase},
			{"shoes", "A", 0},
		} {
			if _, err := engine.Adjust(ctx, tc.category, tc.id, tc.dir); !errors.Is(err, app.ErrInvalidInput) {
				t.Fatalf("Adjust(%q,%q,%v): expected ErrInvalidInput, got %v", tc.category, tc.id, tc.dir, err)
			}
		}
		if _, err := engine.ResetCategory(ctx, ""); !errors.Is(err, app.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("category not found", func(t *testing.T) {
		engine := app.New(newTrackingStore(t, prod("A", "shoes", "100")), domain.DefaultRule())
		if _, err := engine.Adjust(ctx, "hats", "A", domain.Increase); !errors.Is(err, app.ErrCategoryNotFound) {
			t.Fatalf("expected ErrCategoryNotFound, got %v", err)
		}
		if _, err := engine.ResetCategory(ctx, "hats"); !errors.Is(err, app.ErrCategoryNotFound) {
			t.Fatalf("expected ErrCategoryNotFound, got %v", err)
		}
	})

	t.Run("persistence failure leaves prices untouched", func(t *testing.T) {
		store := newTrackingStore(t, prod("A", "shoes", "100"), prod("B", "shoes", "100"))
		store.failWrite = errors.New("disk full")
		pub := &recordingPublisher{}
		engine := app.New(store, domain.DefaultRule(), app.WithPublisher(pub))

		if _, err := engine.Adjust(ctx, "shoes", "A", domain.Increase); !errors.Is(err, storage.ErrPersistence) {
			t.Fatalf("expected ErrPersistence, got %v", err)
		}
		all, _ := store.ProductRepo.ListAll(ctx)
		if diff := cmp.Diff(map[string]string{"A": "100", "B": "100"}, dynamic(all)); diff != "" {
			t.Fatalf("(-want +got):\n%s", diff)
		}
		if len(pub.events) != 0 {
			t.Fatalf("no event expected after a failed write, got %d", len(pub.events))
		}
	})
}

func TestEngine_PublishFailureDoesNotFailAdjust(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewPricingMetrics(reg)
	store := newTrackingStore(t, prod("A", "shoes", "100"))
	engine := app.New(store, domain.DefaultRule(),
		app.WithPublisher(&recordingPublisher{err: errors.New("broker down")}),
		app.WithMetrics(m),
	)

	if _, err := engine.Adjust(context.Background(), "shoes", "A", domain.Increase); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if got := testutil.ToFloat64(m.PublishErrors); got != 1 {
		t.Fatalf("publish errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Adjustments.WithLabelValues("increase", "ok")); got != 1 {
		t.Fatalf("adjustments = %v, want 1", got)
	}
}

func TestEngine_ResetAll(t *testing.T) {
	ctx := context.Background()
	store := newTrackingStore(t, prod("A", "shoes", "100"), prod("B", "shoes", "100"), prod("C", "hats", "200"))
	pub := &recordingPublisher{}
	engine := app.New(store, domain.DefaultRule(), app.WithPublisher(pub))

	if _, err := engine.Adjust(ctx, "shoes", "A", domain.Increase); err != nil {
		t.Fatalf("adjust shoes: %v", err)
	}
	if _, err := engine.Adjust(ctx, "hats", "C", domain.Decrease); err != nil {
		t.Fatalf("adjust hats: %v", err)
	}

	got, err := engine.ResetAll(ctx)
	if err != nil {
		t.Fatalf("reset all: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"A": "100", "B": "100", "C": "200"}, dynamic(got)); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if last := pub.events[len(pub.events)-1]; last.Reason != events.ReasonResetAll || last.Key() != "all" {
		t.Fatalf("unexpected last event: %+v", last)
	}

	empty := app.New(newTrackingStore(t), domain.DefaultRule())
	got, err = empty.ResetAll(ctx)
	if err != nil || len(got) != 0 {
		t.Fatalf("reset of empty catalog = %v, %v", got, err)
	}
}

func TestEngine_ConcurrentAdjustmentsAreSerializedPerCategory(t *testing.T) {
	var seed []catalog.Product
	for i := 0; i < 4; i++ {
		seed = append(seed, prod(fmt.Sprintf("s%d", i), "shoes", "100"))
		seed = append(seed, prod(fmt.Sprintf("h%d", i), "hats", "1000"))
	}
	store := newTrackingStore(t, seed...)
	store.delay = time.Millisecond
	rule := domain.DefaultRule()
	engine := app.New(store, rule)

	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < 40; i++ {
		category, prefix := "shoes", "s"
		if i%2 == 1 {
			category, prefix = "hats", "h"
		}
		dir := domain.Increase
		if i%3 == 0 {
			dir = domain.Decrease
		}
		id := fmt.Sprintf("%s%d", prefix, i%4)
		g.Go(func() error {
			_, err := engine.Adjust(ctx, category, id, dir)
			return err
		})
		if i%10 == 9 {
			g.Go(func() error {
				_, err := engine.ResetAll(ctx)
				return err
			})
		}
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent adjust: %v", err)
	}

	if store.maxPerCat > 1 {
		t.Fatalf("a category saw %d overlapping read-modify-write cycles", store.maxPerCat)
	}
	if store.overlapping {
		t.Fatal("a catalog reset overlapped a category adjustment")
	}

	all, _ := store.ProductRepo.ListAll(context.Background())
	for _, p := range all {
		if !rule.InBand(p) {
			t.Fatalf("%s dynamic %s outside band of base %s", p.ID, p.DynamicPrice, p.BasePrice)
		}
	}
}

func TestEngine_DisjointCategoriesDoNotBlockEachOther(t *testing.T) {
	store := newTrackingStore(t, prod("A", "shoes", "100"), prod("B", "hats", "100"))
	gate := &gatedStore{trackingStore: store, release: make(chan struct{}), entered: make(chan struct{}, 1)}
	engine := app.New(gate, domain.DefaultRule())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = engine.Adjust(context.Background(), "shoes", "A", domain.Increase)
	}()
	<-gate.entered

	result := make(chan error, 1)
	go func() {
		_, err := engine.Adjust(context.Background(), "hats", "B", domain.Increase)
		result <- err
	}()

	select {
	case err := <-result:
		if err != nil {
			t.Fatalf("adjust hats: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("hats adjustment blocked behind shoes")
	}

	close(gate.release)
	wg.Wait()
}

// gatedStore parks the first "shoes" read until release is closed.
type gatedStore struct {
	*trackingStore
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gatedStore) ListByCategory(ctx context.Context, category string) ([]catalog.Product, error) {
	if category == "shoes" {
		g.once.Do(func() {
			g.entered <- struct{}{}
			<-g.release
		})
	}
	return g.trackingStore.ListByCategory(ctx, category)
}

var _ app.PriceStore = (*memdb.ProductRepo)(nil)

func TestEngine_EventCarriesClockAndPrices(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	pub := &recordingPublisher{}
	engine := app.New(newTrackingStore(t, prod("A", "shoes", "99.99")), domain.DefaultRule(),
		app.WithPublisher(pub), app.WithClock(func() time.Time { return at }))

	if _, err := engine.ResetCategory(context.Background(), "shoes"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	want := events.PricesChanged{
		EventID:    pub.events[0].EventID,
		Reason:     events.ReasonResetCategory,
		Category:   "shoes",
		Products:   []events.PriceChange{{ProductID: "A", Category: "shoes", BasePrice: "99.99", DynamicPrice: "99.99"}},
		OccurredAt: at,
	}
	if diff := cmp.Diff(want, pub.events[0]); diff != "" {
		t.Fatalf("event (-want +got):\n%s", diff)
	}
}
