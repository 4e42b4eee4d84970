package memdb

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-memdb"

	"github.com/dwikikusuma/shoping-pricing/internal/catalog/app"
	"github.com/dwikikusuma/shoping-pricing/internal/catalog/domain"
)

const table = "products"

var schema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		table: {
			Name: table,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "ID"},
				},
				"category": {
					Name:    "category",
					Indexer: &memdb.StringFieldIndex{Field: "Category"},
				},
			},
		},
	},
}

// ProductRepo keeps the catalog in an in-memory radix tree. Write
// transactions are atomic and readers always see the last committed
// snapshot, which gives BulkWrite its all-or-nothing guarantee.
type ProductRepo struct {
	db  *memdb.MemDB
	now func() time.Time
}

func NewProductRepo() (*ProductRepo, error) {
	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, err
	}
	return &ProductRepo{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (r *ProductRepo) Create(_ context.Context, p domain.Product) (domain.Product, error) {
	txn := r.db.Txn(true)
	defer txn.Abort()

	existing, err := txn.First(table, "id", p.ID)
	if err != nil {
		return domain.Product{}, err
	}
	if existing != nil {
		return domain.Product{}, fmt.Errorf("product %s: %w", p.ID, app.ErrConflict)
	}

	now := r.now()
	p.CreatedAt, p.UpdatedAt = now, now
	stored := p
	if err := txn.Insert(table, &stored); err != nil {
		return domain.Product{}, err
	}
	txn.Commit()
	return p, nil
}

func (r *ProductRepo) Get(_ context.Context, id string) (domain.Product, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(table, "id", id)
	if err != nil {
		return domain.Product{}, err
	}
	if raw == nil {
		return domain.Product{}, app.ErrNotFound
	}
	return *raw.(*domain.Product), nil
}

func (r *ProductRepo) ListByCategory(_ context.Context, category string) ([]domain.Product, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(table, "category", category)
	if err != nil {
		return nil, err
	}
	return collect(it), nil
}

func (r *ProductRepo) ListAll(_ context.Context) ([]domain.Product, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(table, "id")
	if err != nil {
		return nil, err
	}
	return collect(it), nil
}

// BulkWrite replaces the dynamic prices of existing products in one
// transaction. An unknown id aborts the whole batch.
func (r *ProductRepo) BulkWrite(_ context.Context, products []domain.Product) error {
	txn := r.db.Txn(true)
	defer txn.Abort()

	now := r.now()
	for _, p := range products {
		raw, err := txn.First(table, "id", p.ID)
		if err != nil {
			return err
		}
		if raw == nil {
			return fmt.Errorf("bulk write %s: %w", p.ID, app.ErrNotFound)
		}

		updated := *raw.(*domain.Product)
		updated.DynamicPrice = p.DynamicPrice
		updated.UpdatedAt = now
		if err := txn.Insert(table, &updated); err != nil {
			return err
		}
	}

	txn.Commit()
	return nil
}

func collect(it memdb.ResultIterator) []domain.Product {
	var out []domain.Product
	for obj := it.Next(); obj != nil; obj = it.Next() {
		out = append(out, *obj.(*domain.Product))
	}
	return out
}
