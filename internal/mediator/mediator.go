package mediator

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"isengard/internal/domain"
	"isengard/internal/errors"
)

// Command is a request for a single handler. Kind identifies the handler it
// routes to.
type Command interface {
	Kind() string
}

type CommandHandler func(ctx context.Context, cmd Command) (*errors.ValidationResult, error)

type EventHandler func(ctx context.Context, event domain.Event) error

// EventSource is an aggregate holding pending domain events.
type EventSource interface {
	DrainEvents() []domain.Event
}

// EventStore receives every dispatched domain event as an audit record.
type EventStore interface {
	Store(ctx context.Context, event domain.Event) error
}

// Mediator routes each command to exactly one registered handler and fans
// pending domain events out to in-process subscribers after a successful
// commit. Delivery is synchronous and at-least-once within the process.
type Mediator struct {
	mu          sync.RWMutex
	handlers    map[string]CommandHandler
	subscribers map[string][]EventHandler
	store       EventStore
	logger      *zap.Logger
}

// New builds a mediator. store may be nil when no audit log is wired.
func New(store EventStore, logger *zap.Logger) *Mediator {
	return &Mediator{
		handlers:    make(map[string]CommandHandler),
		subscribers: make(map[string][]EventHandler),
		store:       store,
		logger:      logger,
	}
}

func (m *Mediator) Register(kind string, handler CommandHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[kind] = handler
}

func (m *Mediator) Send(ctx context.Context, cmd Command) (*errors.ValidationResult, error) {
	m.mu.RLock()
	handler, ok := m.handlers[cmd.Kind()]
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("no handler registered for command %s", cmd.Kind())
	}
	return handler(ctx, cmd)
}

func (m *Mediator) SubscribeEvent(name string, handler EventHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers[name] = append(m.subscribers[name], handler)
}

// DispatchEvents drains the aggregate's pending events, appends each to the
// event store and publishes it to every subscriber. Call it only after the
// unit of work that raised the events has committed.
func (m *Mediator) DispatchEvents(ctx context.Context, source EventSource) {
	for _, event := range source.DrainEvents() {
		if m.store != nil {
			if err := m.store.Store(ctx, event); err != nil {
				m.logger.Warn("storing domain event failed",
					zap.String("event", event.EventName()),
					zap.String("aggregateId", event.AggregateID()),
					zap.Error(err))
			}
		}

		m.mu.RLock()
		handlers := m.subscribers[event.EventName()]
		m.mu.RUnlock()

		for _, handler := range handlers {
			if err := handler(ctx, event); err != nil {
				m.logger.Error("domain event handler failed",
					zap.String("event", event.EventName()),
					zap.String("aggregateId", event.AggregateID()),
					zap.Error(err))
			}
		}
	}
}
