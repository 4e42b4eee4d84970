package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID           string
	Name         string
	Category     string
	BasePrice    decimal.Decimal
	DynamicPrice decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// WithDynamicPrice returns a copy of p carrying price.
func (p Product) WithDynamicPrice(price decimal.Decimal) Product {
	p.DynamicPrice = price
	return p
}

// Reset returns a copy of p back at its base price.
func (p Product) Reset() Product {
	return p.WithDynamicPrice(p.BasePrice)
}

// Within reports whether the dynamic price lies in [floor×base, ceiling×base].
func (p Product) Within(floor, ceiling decimal.Decimal) bool {
	lo := p.BasePrice.Mul(floor)
	hi := p.BasePrice.Mul(ceiling)
	return p.DynamicPrice.GreaterThanOrEqual(lo) && p.DynamicPrice.LessThanOrEqual(hi)
}
