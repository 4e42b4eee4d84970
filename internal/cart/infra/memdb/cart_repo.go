package memdb

import (
	"context"

	"github.com/hashicorp/go-memdb"

	"github.com/dwikikusuma/shoping-pricing/internal/cart/app"
	"github.com/dwikikusuma/shoping-pricing/internal/cart/domain"
)

const table = "carts"

var schema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		table: {
			Name: table,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "UserID"},
				},
			},
		},
	},
}

type CartRepo struct {
	db *memdb.MemDB
}

func NewCartRepo() (*CartRepo, error) {
	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, err
	}
	return &CartRepo{db: db}, nil
}

func (r *CartRepo) Get(_ context.Context, userID string) (domain.Cart, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(table, "id", userID)
	if err != nil {
		return domain.Cart{}, err
	}
	if raw == nil {
		return domain.Cart{}, app.ErrCartNotFound
	}
	return clone(*raw.(*domain.Cart)), nil
}

// Save replaces the whole cart.
func (r *CartRepo) Save(_ context.Context, cart domain.Cart) error {
	txn := r.db.Txn(true)
	defer txn.Abort()

	stored := clone(cart)
	if err := txn.Insert(table, &stored); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

// clone detaches the line slice so stored carts never share memory with
// callers.
func clone(c domain.Cart) domain.Cart {
	lines := make([]domain.Line, len(c.Lines))
	copy(lines, c.Lines)
	c.Lines = lines
	return c
}
