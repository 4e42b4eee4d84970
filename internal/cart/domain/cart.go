package domain

import (
	"errors"
	"time"
)

var ErrNoSuchLine = errors.New("no line for product")

type Line struct {
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
}

// Cart belongs to one user. Lines keep insertion order and hold at most one
// line per product, always with quantity >= 1.
type Cart struct {
	UserID    string    `json:"user_id"`
	Lines     []Line    `json:"lines"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func New(userID string, now time.Time) Cart {
	return Cart{UserID: userID, Lines: []Line{}, CreatedAt: now, UpdatedAt: now}
}

func (c Cart) IsEmpty() bool { return len(c.Lines) == 0 }

// Quantity of productID, zero when there is no line.
func (c Cart) Quantity(productID string) int32 {
	if i := c.index(productID); i >= 0 {
		return c.Lines[i].Quantity
	}
	return 0
}

// Increment adds one unit of productID, appending a new line if needed.
func (c Cart) Increment(productID string, now time.Time) Cart {
	lines := c.cloneLines()
	if i := c.index(productID); i >= 0 {
		lines[i].Quantity++
	} else {
		lines = append(lines, Line{ProductID: productID, Quantity: 1})
	}
	c.Lines = lines
	c.UpdatedAt = now
	return c
}

// Decrement removes one unit of productID. The last unit drops the line.
func (c Cart) Decrement(productID string, now time.Time) (Cart, error) {
	i := c.index(productID)
	if i < 0 {
		return c, ErrNoSuchLine
	}

	lines := c.cloneLines()
	if lines[i].Quantity > 1 {
		lines[i].Quantity--
	} else {
		lines = append(lines[:i], lines[i+1:]...)
	}
	c.Lines = lines
	c.UpdatedAt = now
	return c, nil
}

func (c Cart) index(productID string) int {
	for i, l := range c.Lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c Cart) cloneLines() []Line {
	out := make([]Line, len(c.Lines), len(c.Lines)+1)
	copy(out, c.Lines)
	return out
}
