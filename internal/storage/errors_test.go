package storage

import (
	"errors"
	"testing"
)

func TestWrap(t *testing.T) {
	if Wrap("noop", nil) != nil {
		t.Fatal("nil error must stay nil")
	}

	cause := errors.New("connection reset")
	err := Wrap("bulk write", cause)
	if !errors.Is(err, ErrPersistence) || !errors.Is(err, cause) {
		t.Fatalf("expected both sentinel and cause, got %v", err)
	}

	twice := Wrap("adjust", err)
	if !errors.Is(twice, ErrPersistence) || !errors.Is(twice, cause) {
		t.Fatalf("rewrap lost chain: %v", twice)
	}
}
