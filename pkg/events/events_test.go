package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/dwikikusuma/shoping-pricing/pkg/logger"
)

type captureWriter struct {
	msgs   []kafka.Message
	closed bool
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *captureWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisherKeysByCategory(t *testing.T) {
	w := &captureWriter{}
	p := &KafkaPublisher{w: w}

	evt := PricesChanged{
		EventID:  "evt-1",
		Reason:   ReasonAdjust,
		Category: "shoes",
		Products: []PriceChange{{ProductID: "p1", Category: "shoes", BasePrice: "100", DynamicPrice: "120"}},
	}
	if err := p.Publish(context.Background(), evt); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := p.Close(); err != nil || !w.closed {
		t.Fatalf("close: %v closed=%v", err, w.closed)
	}

	if len(w.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(w.msgs))
	}
	if string(w.msgs[0].Key) != "shoes" {
		t.Fatalf("expected key shoes, got %q", w.msgs[0].Key)
	}

	var got PricesChanged
	if err := json.Unmarshal(w.msgs[0].Value, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.EventID != "evt-1" || len(got.Products) != 1 || got.Products[0].DynamicPrice != "120" {
		t.Fatalf("unexpected payload %+v", got)
	}
}

func TestRoutingKey(t *testing.T) {
	cases := []struct {
		evt  PricesChanged
		want string
	}{
		{PricesChanged{Reason: ReasonAdjust, Category: "shoes"}, "prices.adjust.shoes"},
		{PricesChanged{Reason: ReasonResetAll, OccurredAt: time.Now()}, "prices.reset_all.all"},
	}
	for _, c := range cases {
		if got := RoutingKey(c.evt); got != c.want {
			t.Fatalf("RoutingKey = %q, want %q", got, c.want)
		}
	}
}

func TestOpen(t *testing.T) {
	log := logger.Nop()

	t.Run("none -> nop", func(t *testing.T) {
		p, err := Open(Options{Driver: "none"}, log)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		if err := p.Publish(context.Background(), PricesChanged{}); err != nil {
			t.Fatalf("nop publish: %v", err)
		}
	})

	t.Run("kafka without brokers -> error", func(t *testing.T) {
		if _, err := Open(Options{Driver: "kafka"}, log); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := Open(Options{Driver: "carrier-pigeon"}, log)
		if !errors.Is(err, ErrUnknownDriver) {
			t.Fatalf("expected ErrUnknownDriver, got %v", err)
		}
	})
}
