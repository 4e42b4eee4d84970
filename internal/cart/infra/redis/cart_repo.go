package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/dwikikusuma/shoping-pricing/internal/cart/app"
	"github.com/dwikikusuma/shoping-pricing/internal/cart/domain"
)

const keyPrefix = "cart:"

// CartRepo keeps each cart as one JSON document, so a Save is a single SET
// and readers never see half a cart.
type CartRepo struct {
	rdb redis.Cmdable
}

func NewCartRepo(rdb redis.Cmdable) *CartRepo {
	return &CartRepo{rdb: rdb}
}

func Key(userID string) string { return keyPrefix + userID }

func (r *CartRepo) Get(ctx context.Context, userID string) (domain.Cart, error) {
	raw, err := r.rdb.Get(ctx, Key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Cart{}, app.ErrCartNotFound
	}
	if err != nil {
		return domain.Cart{}, err
	}

	var cart domain.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		return domain.Cart{}, fmt.Errorf("decode cart %s: %w", userID, err)
	}
	if cart.Lines == nil {
		cart.Lines = []domain.Line{}
	}
	return cart, nil
}

func (r *CartRepo) Save(ctx context.Context, cart domain.Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart %s: %w", cart.UserID, err)
	}
	return r.rdb.Set(ctx, Key(cart.UserID), raw, 0).Err()
}
