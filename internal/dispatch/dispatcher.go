package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/rickgao/captainup-firehose/internal/message"
	"github.com/rickgao/captainup-firehose/internal/metrics"
)

// Summary counts the outcome of dispatching one batch.
type Summary struct {
	Handled   int
	Failed    int
	Unhandled int
}

// Dispatcher delivers events to the handlers in a Registry.
type Dispatcher struct {
	registry *Registry
	logger   *slog.Logger
	metrics  *metrics.Collectors
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(registry *Registry, m *metrics.Collectors, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		registry: registry,
		logger:   logger,
		metrics:  m,
	}
}

// Dispatch delivers events in order. It never stops early.
func (d *Dispatcher) Dispatch(ctx context.Context, events []message.EventRecord) Summary {
	var s Summary
	for _, ev := range events {
		if ev.Err != nil {
			s.Failed++
			d.metrics.Event(ev.Type, metrics.ResultFailed)
			d.logger.Error("malformed event",
				"error", ev.Err,
				"event", ev.Raw,
			)
			continue
		}

		h, ok := d.registry.Lookup(ev.Type)
		if !ok {
			s.Unhandled++
			d.metrics.Event(ev.Type, metrics.ResultUnhandled)
			d.logger.Warn("no handler found for event type", "type", ev.Type)
			continue
		}

		if err := d.invoke(ctx, h, ev); err != nil {
			s.Failed++
			d.metrics.Event(ev.Type, metrics.ResultFailed)
			d.logger.Error("error processing event",
				"type", ev.Type,
				"error", err,
				"payload", ev.Payload,
			)
			continue
		}

		s.Handled++
		d.metrics.Event(ev.Type, metrics.ResultHandled)
	}
	return s
}

// invoke calls h, converting a panic into an error.
func (d *Dispatcher) invoke(ctx context.Context, h Handler, ev message.EventRecord) (err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Debug("handler panic stack", "type", ev.Type, "stack", string(debug.Stack()))
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h.Handle(ctx, ev)
}
