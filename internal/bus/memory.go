package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// MemoryBus is an in-process MessageBus. Delivery is synchronous and in
// subscription order, which keeps handler tests deterministic. It also backs
// single-binary deployments where every service runs in one process.
type MemoryBus struct {
	mu          sync.RWMutex
	subscribers map[string][]Handler
	responders  map[string]Responder
	logger      *zap.Logger
}

func NewMemoryBus(logger *zap.Logger) *MemoryBus {
	return &MemoryBus{
		subscribers: make(map[string][]Handler),
		responders:  make(map[string]Responder),
		logger:      logger,
	}
}

func (b *MemoryBus) Publish(ctx context.Context, topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling %s payload: %w", topic, err)
	}

	b.mu.RLock()
	handlers := b.subscribers[topic]
	b.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(ctx, data); err != nil {
			// Mirrors the broker surfacing a processing failure: the message
			// is not lost silently, but other subscribers still run.
			b.logger.Error("message handler failed",
				zap.String("topic", topic),
				zap.Error(err))
		}
	}
	return nil
}

func (b *MemoryBus) Subscribe(topic string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[topic] = append(b.subscribers[topic], handler)
}

func (b *MemoryBus) Request(ctx context.Context, topic string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s request: %w", topic, err)
	}

	b.mu.RLock()
	responder, ok := b.responders[topic]
	b.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("no responder registered for %s", topic)
	}
	return responder(ctx, data)
}

func (b *MemoryBus) Respond(topic string, responder Responder) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.responders[topic] = responder
}

func (b *MemoryBus) Close() error {
	return nil
}
