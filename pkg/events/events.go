// Package events publishes price change notifications to a message broker.
package events

import (
	"context"
	"errors"
	"time"
)

const (
	ReasonAdjust        = "adjust"
	ReasonResetCategory = "reset_category"
	ReasonResetAll      = "reset_all"
)

type PriceChange struct {
	ProductID    string `json:"product_id"`
	Category     string `json:"category"`
	BasePrice    string `json:"base_price"`
	DynamicPrice string `json:"dynamic_price"`
}

// PricesChanged is emitted after a price batch has been written.
type PricesChanged struct {
	EventID          string        `json:"event_id"`
	Reason           string        `json:"reason"`
	Category         string        `json:"category,omitempty"`
	TriggerProductID string        `json:"trigger_product_id,omitempty"`
	Direction        string        `json:"direction,omitempty"`
	Products         []PriceChange `json:"products"`
	OccurredAt       time.Time     `json:"occurred_at"`
}

// Key partitions events so that one category stays ordered.
func (e PricesChanged) Key() string {
	if e.Category == "" {
		return "all"
	}
	return e.Category
}

type Publisher interface {
	Publish(ctx context.Context, evt PricesChanged) error
	Close() error
}

var ErrUnknownDriver = errors.New("unknown events driver")

type nopPublisher struct{}

// Nop returns a publisher that accepts and drops every event.
func Nop() Publisher { return nopPublisher{} }

func (nopPublisher) Publish(context.Context, PricesChanged) error { return nil }
func (nopPublisher) Close() error                                 { return nil }
