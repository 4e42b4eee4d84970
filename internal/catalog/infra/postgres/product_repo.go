package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/dwikikusuma/shoping-pricing/internal/catalog/app"
	"github.com/dwikikusuma/shoping-pricing/internal/catalog/domain"
)

// Prices travel as text so NUMERIC keeps its exact scale without a pgx type
// adapter.
const selectProduct = `SELECT id, name, category, base_price::text, dynamic_price::text, created_at, updated_at FROM products`

type ProductRepo struct {
	pool *pgxpool.Pool
}

func NewProductRepo(pool *pgxpool.Pool) *ProductRepo {
	return &ProductRepo{pool: pool}
}

func (r *ProductRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO products (id, name, category, base_price, dynamic_price)
		 VALUES ($1, $2, $3, $4::numeric, $5::numeric)
		 RETURNING id, name, category, base_price::text, dynamic_price::text, created_at, updated_at`,
		p.ID, p.Name, p.Category, p.BasePrice.String(), p.DynamicPrice.String(),
	)

	created, err := scanProduct(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Product{}, fmt.Errorf("product %s: %w", p.ID, app.ErrConflict)
		}
		return domain.Product{}, err
	}
	return created, nil
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	product, err := scanProduct(r.pool.QueryRow(ctx, selectProduct+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

func (r *ProductRepo) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, selectProduct+` WHERE category = $1 ORDER BY id`, category)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (r *ProductRepo) ListAll(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, selectProduct+` ORDER BY category, id`)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// BulkWrite updates every dynamic price in one transaction; a missing row
// rolls the whole batch back.
func (r *ProductRepo) BulkWrite(ctx context.Context, products []domain.Product) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(`UPDATE products SET dynamic_price = $2::numeric, updated_at = now() WHERE id = $1`,
			p.ID, p.DynamicPrice.String())
	}

	results := tx.SendBatch(ctx, batch)
	for _, p := range products {
		tag, err := results.Exec()
		if err != nil {
			_ = results.Close()
			return fmt.Errorf("bulk write %s: %w", p.ID, err)
		}
		if tag.RowsAffected() != 1 {
			_ = results.Close()
			return fmt.Errorf("bulk write %s: %w", p.ID, app.ErrNotFound)
		}
	}
	if err := results.Close(); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func collect(rows pgx.Rows) ([]domain.Product, error) {
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var (
		p             domain.Product
		base, dynamic string
		created, upd  time.Time
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Category, &base, &dynamic, &created, &upd); err != nil {
		return domain.Product{}, err
	}

	var err error
	if p.BasePrice, err = decimal.NewFromString(base); err != nil {
		return domain.Product{}, fmt.Errorf("product %s base price: %w", p.ID, err)
	}
	if p.DynamicPrice, err = decimal.NewFromString(dynamic); err != nil {
		return domain.Product{}, fmt.Errorf("product %s dynamic price: %w", p.ID, err)
	}
	p.CreatedAt, p.UpdatedAt = created, upd
	return p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
