package shutdown

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// WithSignals returns a context cancelled on SIGINT or SIGTERM.
func WithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(ch)
		select {
		case <-ctx.Done():
			return
		case <-ch:
			cancel()
		}
	}()

	return ctx, cancel
}

// Func is a cleanup step run during shutdown.
type Func func(ctx context.Context) error

// Run executes the steps in reverse registration order and returns the first error.
func Run(ctx context.Context, steps ...Func) error {
	var first error
	for i := len(steps) - 1; i >= 0; i-- {
		if steps[i] == nil {
			continue
		}
		if err := steps[i](ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}
