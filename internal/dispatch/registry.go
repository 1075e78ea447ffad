package dispatch

import (
	"context"
	"sort"

	"github.com/rickgao/captainup-firehose/internal/message"
)

// Handler observes one event. Handlers only read the payload and must not
// block; a returned error is logged by the Dispatcher.
type Handler interface {
	Handle(ctx context.Context, ev message.EventRecord) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, ev message.EventRecord) error

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, ev message.EventRecord) error {
	return f(ctx, ev)
}

// Registry maps event types to handlers.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry copies handlers into a new Registry. Nil handlers are skipped.
func NewRegistry(handlers map[string]Handler) *Registry {
	m := make(map[string]Handler, len(handlers))
	for eventType, h := range handlers {
		if h == nil {
			continue
		}
		m[eventType] = h
	}
	return &Registry{handlers: m}
}

// Lookup returns the handler registered for eventType.
func (r *Registry) Lookup(eventType string) (Handler, bool) {
	h, ok := r.handlers[eventType]
	return h, ok
}

// Types returns the registered event types, sorted.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.handlers))
	for t := range r.handlers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Len returns the number of registered handlers.
func (r *Registry) Len() int {
	return len(r.handlers)
}
