package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestCartLineLifecycle(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New("u1", t0)
	if !c.IsEmpty() {
		t.Fatal("new cart must be empty")
	}

	c = c.Increment("X", t0.Add(time.Second))
	c = c.Increment("Y", t0.Add(2*time.Second))
	c = c.Increment("X", t0.Add(3*time.Second))

	want := []Line{{ProductID: "X", Quantity: 2}, {ProductID: "Y", Quantity: 1}}
	if diff := cmp.Diff(want, c.Lines); diff != "" {
		t.Fatalf("lines (-want +got):\n%s", diff)
	}
	if !c.UpdatedAt.Equal(t0.Add(3 * time.Second)) {
		t.Fatalf("updated at = %v", c.UpdatedAt)
	}

	var err error
	if c, err = c.Decrement("X", t0); err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if c.Quantity("X") != 1 {
		t.Fatalf("X quantity = %d, want 1", c.Quantity("X"))
	}
	if c, err = c.Decrement("X", t0); err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if diff := cmp.Diff([]Line{{ProductID: "Y", Quantity: 1}}, c.Lines); diff != "" {
		t.Fatalf("X line should be gone (-want +got):\n%s", diff)
	}
	if c, err = c.Decrement("Y", t0); err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if !c.IsEmpty() {
		t.Fatalf("cart should be empty, got %+v", c.Lines)
	}
}

func TestCartDecrementMissingLine(t *testing.T) {
	c := New("u1", time.Now()).Increment("X", time.Now())
	got, err := c.Decrement("Z", time.Now())
	if !errors.Is(err, ErrNoSuchLine) {
		t.Fatalf("expected ErrNoSuchLine, got %v", err)
	}
	if diff := cmp.Diff(c, got); diff != "" {
		t.Fatalf("cart changed (-want +got):\n%s", diff)
	}
}

func TestCartMutationsDoNotAlias(t *testing.T) {
	base := New("u1", time.Now()).Increment("X", time.Now())
	_ = base.Increment("X", time.Now())
	_, _ = base.Decrement("X", time.Now())
	if base.Quantity("X") != 1 {
		t.Fatalf("original cart mutated: %+v", base.Lines)
	}
}
