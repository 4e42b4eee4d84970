package events

import (
	"fmt"
	"log/slog"
)

type Options struct {
	Driver       string
	KafkaBrokers []string
	KafkaTopic   string
	AMQPURL      string
	AMQPExchange string
}

// Open builds the publisher selected by opts.Driver.
func Open(opts Options, log *slog.Logger) (Publisher, error) {
	switch opts.Driver {
	case "", "none":
		return Nop(), nil
	case "kafka":
		return NewKafkaPublisher(opts.KafkaBrokers, opts.KafkaTopic)
	case "rabbitmq", "amqp":
		return DialRabbit(opts.AMQPURL, opts.AMQPExchange, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}
