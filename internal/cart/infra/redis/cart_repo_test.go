package redis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/go-cmp/cmp"

	"github.com/dwikikusuma/shoping-pricing/internal/cart/app"
	"github.com/dwikikusuma/shoping-pricing/internal/cart/domain"
)

func TestCartRepoGetMissing(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewCartRepo(db)

	mock.ExpectGet("cart:u1").RedisNil()

	if _, err := repo.Get(context.Background(), "u1"); !errors.Is(err, app.ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCartRepoSaveAndGet(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewCartRepo(db)
	ctx := context.Background()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	cart := domain.New("u1", now).Increment("X", now).Increment("X", now)
	raw, err := json.Marshal(cart)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	mock.ExpectSet("cart:u1", raw, 0).SetVal("OK")
	mock.ExpectGet("cart:u1").SetVal(string(raw))

	if err := repo.Save(ctx, cart); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := repo.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if diff := cmp.Diff(cart, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCartRepoErrors(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewCartRepo(db)
	ctx := context.Background()

	mock.ExpectGet("cart:u1").SetErr(errors.New("connection refused"))
	if _, err := repo.Get(ctx, "u1"); err == nil || errors.Is(err, app.ErrCartNotFound) {
		t.Fatalf("expected transport error, got %v", err)
	}

	mock.ExpectGet("cart:u2").SetVal("{not json")
	if _, err := repo.Get(ctx, "u2"); err == nil {
		t.Fatal("expected decode error")
	}
}
