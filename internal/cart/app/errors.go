package app

import (
	"errors"
	"fmt"

	pricing "github.com/dwikikusuma/shoping-pricing/internal/pricing/domain"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrProductNotFound = errors.New("product not found")
	ErrCartNotFound    = errors.New("cart not found")
	ErrPartialApply    = errors.New("cart saved but prices not applied")
)

// PartialApplyError is returned when the cart write succeeded and the price
// update that should follow it did not. The fields are enough to retry the
// pricing step alone.
type PartialApplyError struct {
	Category  string
	ProductID string
	Direction pricing.Direction
	// ResetAll is set when the category adjustment went through and the
	// empty-cart catalog reset failed.
	ResetAll bool
	Err      error
}

func (e *PartialApplyError) Error() string {
	step := fmt.Sprintf("adjust %s %s on %s", e.Category, e.Direction, e.ProductID)
	if e.ResetAll {
		step = "reset catalog"
	}
	return fmt.Sprintf("%s: %s: %v", ErrPartialApply, step, e.Err)
}

func (e *PartialApplyError) Unwrap() []error {
	return []error{ErrPartialApply, e.Err}
}
