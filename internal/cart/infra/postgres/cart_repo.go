package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dwikikusuma/shoping-pricing/internal/cart/app"
	"github.com/dwikikusuma/shoping-pricing/internal/cart/domain"
)

type CartRepo struct {
	pool *pgxpool.Pool
}

func NewCartRepo(pool *pgxpool.Pool) *CartRepo {
	return &CartRepo{pool: pool}
}

func (r *CartRepo) Get(ctx context.Context, userID string) (domain.Cart, error) {
	cart := domain.Cart{UserID: userID, Lines: []domain.Line{}}

	err := r.pool.QueryRow(ctx,
		`SELECT created_at, updated_at FROM carts WHERE user_id = $1`, userID,
	).Scan(&cart.CreatedAt, &cart.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Cart{}, app.ErrCartNotFound
	}
	if err != nil {
		return domain.Cart{}, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT product_id, quantity FROM cart_lines WHERE user_id = $1 ORDER BY position`, userID)
	if err != nil {
		return domain.Cart{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var l domain.Line
		if err := rows.Scan(&l.ProductID, &l.Quantity); err != nil {
			return domain.Cart{}, err
		}
		cart.Lines = append(cart.Lines, l)
	}
	return cart, rows.Err()
}

// Save upserts the cart header and replaces its lines in one transaction.
func (r *CartRepo) Save(ctx context.Context, cart domain.Cart) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO carts (user_id, created_at, updated_at) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET updated_at = EXCLUDED.updated_at`,
		cart.UserID, cart.CreatedAt, cart.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert cart: %w", err)
	}

	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM cart_lines WHERE user_id = $1`, cart.UserID)
	for i, l := range cart.Lines {
		batch.Queue(
			`INSERT INTO cart_lines (user_id, product_id, quantity, position) VALUES ($1, $2, $3, $4)`,
			cart.UserID, l.ProductID, l.Quantity, i,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("write cart lines: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
