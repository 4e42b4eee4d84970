package domain

import (
	"errors"

	"github.com/shopspring/decimal"

	catalog "github.com/dwikikusuma/shoping-pricing/internal/catalog/domain"
)

// Rule moves a price one step away from base, clamped to a band around base.
// Every price is computed from base alone, so applying the same direction
// twice gives the same price.
type Rule struct {
	Step    decimal.Decimal
	Floor   decimal.Decimal
	Ceiling decimal.Decimal
}

var ErrInvalidRule = errors.New("invalid pricing rule")

func DefaultRule() Rule {
	return Rule{
		Step:    decimal.NewFromInt(50),
		Floor:   decimal.RequireFromString("0.8"),
		Ceiling: decimal.RequireFromString("1.2"),
	}
}

// ParseRule builds a rule from its textual parts, as found in config.
func ParseRule(step, floor, ceiling string) (Rule, error) {
	var r Rule
	var err error
	if r.Step, err = decimal.NewFromString(step); err != nil {
		return Rule{}, errors.Join(ErrInvalidRule, err)
	}
	if r.Floor, err = decimal.NewFromString(floor); err != nil {
		return Rule{}, errors.Join(ErrInvalidRule, err)
	}
	if r.Ceiling, err = decimal.NewFromString(ceiling); err != nil {
		return Rule{}, errors.Join(ErrInvalidRule, err)
	}
	return r, r.Validate()
}

func (r Rule) Validate() error {
	one := decimal.NewFromInt(1)
	switch {
	case !r.Step.IsPositive():
		return errors.Join(ErrInvalidRule, errors.New("step must be positive"))
	case !r.Floor.IsPositive() || r.Floor.GreaterThan(one):
		return errors.Join(ErrInvalidRule, errors.New("floor must be in (0, 1]"))
	case r.Ceiling.LessThan(one):
		return errors.Join(ErrInvalidRule, errors.New("ceiling must be >= 1"))
	}
	return nil
}

// Price is the dynamic price for base under d:
// Increase -> min(base+step, base×ceiling), Decrease -> max(base-step, base×floor).
func (r Rule) Price(base decimal.Decimal, d Direction) decimal.Decimal {
	if d == Increase {
		return decimal.Min(base.Add(r.Step), base.Mul(r.Ceiling))
	}
	return decimal.Max(base.Sub(r.Step), base.Mul(r.Floor))
}

// Reprice returns a new category slice: the trigger moves in d, every sibling
// in the opposite direction. The input slice is not modified.
func (r Rule) Reprice(products []catalog.Product, triggerID string, d Direction) []catalog.Product {
	out := make([]catalog.Product, len(products))
	for i, p := range products {
		dir := d.Opposite()
		if p.ID == triggerID {
			dir = d
		}
		out[i] = p.WithDynamicPrice(r.Price(p.BasePrice, dir))
	}
	return out
}

// Reset returns copies of products back at base price.
func Reset(products []catalog.Product) []catalog.Product {
	out := make([]catalog.Product, len(products))
	for i, p := range products {
		out[i] = p.Reset()
	}
	return out
}

// InBand reports whether p respects the rule's clamp.
func (r Rule) InBand(p catalog.Product) bool {
	return p.Within(r.Floor, r.Ceiling)
}
