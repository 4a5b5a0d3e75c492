// Package messaging provides an in-process domain event bus
package messaging

import (
	"context"
	"errors"
	"sync"

	"github.com/meadcraft/meadery/internal/domain/shared"
	"go.uber.org/zap"
)

// LocalBus dispatches domain events synchronously to subscribed handlers.
// A handler subscribed to "*" receives every event.
type LocalBus struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
	logger   *zap.Logger
}

// NewLocalBus creates an empty bus
func NewLocalBus(logger *zap.Logger) *LocalBus {
	return &LocalBus{
		handlers: make(map[string][]shared.EventHandler),
		logger:   logger.Named("event-bus"),
	}
}

// Subscribe registers a handler for an event name
func (b *LocalBus) Subscribe(eventName string, handler shared.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], handler)
}

// Publish delivers each event to its handlers. Every handler runs even if an
// earlier one fails; the failures are joined into the returned error.
func (b *LocalBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	var errs []error

	for _, event := range events {
		if err := ctx.Err(); err != nil {
			return err
		}

		b.mu.RLock()
		handlers := append([]shared.EventHandler{}, b.handlers[event.EventName()]...)
		handlers = append(handlers, b.handlers["*"]...)
		b.mu.RUnlock()

		b.logger.Debug("Publishing event",
			zap.String("event", event.EventName()),
			zap.Int("handlers", len(handlers)),
		)

		for _, handler := range handlers {
			if err := handler(event); err != nil {
				b.logger.Warn("Event handler failed",
					zap.String("event", event.EventName()),
					zap.Error(err),
				)
				errs = append(errs, err)
			}
		}
	}

	return errors.Join(errs...)
}
