package domain

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	catalog "github.com/dwikikusuma/shoping-pricing/internal/catalog/domain"
)

func product(id string, base string) catalog.Product {
	price := decimal.RequireFromString(base)
	return catalog.Product{ID: id, Category: "shoes", BasePrice: price, DynamicPrice: price}
}

func prices(products []catalog.Product) map[string]string {
	out := make(map[string]string, len(products))
	for _, p := range products {
		out[p.ID] = p.DynamicPrice.String()
	}
	return out
}

func TestRulePrice(t *testing.T) {
	r := DefaultRule()
	cases := []struct {
		name string
		base string
		dir  Direction
		want string
	}{
		{"increase clamps at ceiling", "100", Increase, "120"},
		{"decrease clamps at floor", "100", Decrease, "80"},
		{"increase takes the step when smaller", "1000", Increase, "1050"},
		{"decrease takes the step when smaller", "1000", Decrease, "950"},
		{"step equals clamp at the boundary", "250", Increase, "300"},
		{"fractional base", "99.99", Increase, "119.988"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := r.Price(decimal.RequireFromString(c.base), c.dir)
			if !got.Equal(decimal.RequireFromString(c.want)) {
				t.Fatalf("Price(%s, %s) = %s, want %s", c.base, c.dir, got, c.want)
			}
		})
	}
}

func TestRepriceInverseSymmetry(t *testing.T) {
	r := DefaultRule()
	category := []catalog.Product{product("A", "100"), product("B", "100")}

	added := r.Reprice(category, "A", Increase)
	if diff := cmp.Diff(map[string]string{"A": "120", "B": "80"}, prices(added)); diff != "" {
		t.Fatalf("after add (-want +got):\n%s", diff)
	}

	removed := r.Reprice(added, "A", Decrease)
	if diff := cmp.Diff(map[string]string{"A": "80", "B": "120"}, prices(removed)); diff != "" {
		t.Fatalf("after remove (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(map[string]string{"A": "100", "B": "100"}, prices(category)); diff != "" {
		t.Fatalf("input slice was modified (-want +got):\n%s", diff)
	}
}

func TestRepriceBoundaryIdempotence(t *testing.T) {
	r := DefaultRule()
	category := []catalog.Product{product("A", "1000"), product("B", "100")}

	once := r.Reprice(category, "A", Increase)
	current := once
	for i := 0; i < 10; i++ {
		current = r.Reprice(current, "A", Increase)
	}
	if diff := cmp.Diff(prices(once), prices(current)); diff != "" {
		t.Fatalf("repeated increase drifted (-once +many):\n%s", diff)
	}
	if got := prices(current)["A"]; got != "1050" {
		t.Fatalf("A = %s, want min(base+step, base*1.2) = 1050", got)
	}
}

func TestRepriceClampInvariant(t *testing.T) {
	r := DefaultRule()
	rng := rand.New(rand.NewSource(42))

	category := []catalog.Product{
		product("a", "10"), product("b", "100"), product("c", "249.5"),
		product("d", "250"), product("e", "1234.56"),
	}
	for i := 0; i < 500; i++ {
		trigger := category[rng.Intn(len(category))].ID
		dir := Increase
		if rng.Intn(2) == 0 {
			dir = Decrease
		}
		category = r.Reprice(category, trigger, dir)

		for _, p := range category {
			if !r.InBand(p) {
				t.Fatalf("step %d: %s dynamic %s outside band of base %s", i, p.ID, p.DynamicPrice, p.BasePrice)
			}
		}
	}
}

func TestReset(t *testing.T) {
	p := product("A", "100").WithDynamicPrice(decimal.NewFromInt(120))
	got := Reset([]catalog.Product{p})
	if !got[0].DynamicPrice.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("reset = %s", got[0].DynamicPrice)
	}
}

func TestParseRule(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		r, err := ParseRule("50", "0.8", "1.2")
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if !r.Step.Equal(DefaultRule().Step) {
			t.Fatalf("step = %s", r.Step)
		}
	})

	for name, in := range map[string][3]string{
		"zero step":      {"0", "0.8", "1.2"},
		"floor above 1":  {"50", "1.1", "1.2"},
		"ceiling below1": {"50", "0.8", "0.9"},
		"not a number":   {"fifty", "0.8", "1.2"},
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseRule(in[0], in[1], in[2]); !errors.Is(err, ErrInvalidRule) {
				t.Fatalf("expected ErrInvalidRule, got %v", err)
			}
		})
	}
}

func TestDirection(t *testing.T) {
	if Increase.Opposite() != Decrease || Decrease.Opposite() != Increase {
		t.Fatal("opposite is not an involution")
	}
	for in, want := range map[string]Direction{"increase": Increase, "Inc": Increase, "add": Increase, "DECREASE": Decrease, " DEC ": Decrease, "remove": Decrease} {
		got, err := ParseDirection(in)
		if err != nil || got != want {
			t.Fatalf("ParseDirection(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseDirection("sideways"); err == nil {
		t.Fatal("expected error")
	}
	if Direction(0).Valid() {
		t.Fatal("zero direction must be invalid")
	}
}
