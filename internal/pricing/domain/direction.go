package domain

import (
	"fmt"
	"strings"
)

// Direction is the demand signal of a cart mutation.
type Direction int

const (
	// Increase: a unit was added to a cart.
	Increase Direction = iota + 1
	// Decrease: a unit was removed from a cart.
	Decrease
)

// Opposite returns the direction that undoes d.
func (d Direction) Opposite() Direction {
	if d == Increase {
		return Decrease
	}
	return Increase
}

// Valid reports whether d is Increase or Decrease.
func (d Direction) Valid() bool {
	return d == Increase || d == Decrease
}

func (d Direction) String() string {
	switch d {
	case Increase:
		return "increase"
	case Decrease:
		return "decrease"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// ParseDirection accepts "increase"/"inc"/"add" and "decrease"/"dec"/"remove",
// case-insensitively.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "increase", "inc", "add":
		return Increase, nil
	case "decrease", "dec", "remove":
		return Decrease, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}
