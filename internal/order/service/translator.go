package service

import (
	"context"

	"go.uber.org/zap"

	"isengard/internal/domain"
	"isengard/internal/events"
	"isengard/internal/mediator"
)

// EventTranslator republishes in-process domain events as integration events
// so the other services hear about them. Only the events the cart service
// consumes cross the process boundary this way.
type EventTranslator struct {
	bus    Publisher
	logger *zap.Logger
}

func NewEventTranslator(bus Publisher, logger *zap.Logger) *EventTranslator {
	return &EventTranslator{bus: bus, logger: logger}
}

// Register subscribes the translator on the mediator.
func (t *EventTranslator) Register(m *mediator.Mediator) {
	m.SubscribeEvent(domain.EventOrderPlaced, t.translateOrderPlaced)
	m.SubscribeEvent(domain.EventOrderFinished, t.translateOrderFinished)
}

func (t *EventTranslator) translateOrderPlaced(ctx context.Context, event domain.Event) error {
	placed, ok := event.(domain.OrderPlacedEvent)
	if !ok {
		return nil
	}
	return t.bus.Publish(ctx, events.TopicOrderPlaced, events.OrderPlaced{CustomerID: placed.CustomerID})
}

func (t *EventTranslator) translateOrderFinished(ctx context.Context, event domain.Event) error {
	finished, ok := event.(domain.OrderFinishedEvent)
	if !ok {
		return nil
	}
	return t.bus.Publish(ctx, events.TopicOrderFinished, events.OrderFinished{CustomerID: finished.CustomerID})
}
