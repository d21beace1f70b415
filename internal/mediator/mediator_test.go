package mediator

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"isengard/internal/domain"
	apperrors "isengard/internal/errors"
)

type testCommand struct {
	kind string
}

func (c testCommand) Kind() string { return c.kind }

type mockEventStore struct {
	StoreFunc func(ctx context.Context, event domain.Event) error
	stored    []domain.Event
}

func (m *mockEventStore) Store(ctx context.Context, event domain.Event) error {
	m.stored = append(m.stored, event)
	if m.StoreFunc != nil {
		return m.StoreFunc(ctx, event)
	}
	return nil
}

func TestMediator_SendRoutesToRegisteredHandler(t *testing.T) {
	m := New(nil, zap.NewNop())

	called := false
	m.Register("order.place", func(ctx context.Context, cmd Command) (*apperrors.ValidationResult, error) {
		called = true
		return apperrors.NewValidationResult(), nil
	})

	result, err := m.Send(context.Background(), testCommand{kind: "order.place"})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if !called {
		t.Error("handler was not invoked")
	}
	if !result.IsValid() {
		t.Error("expected valid result")
	}
}

func TestMediator_SendUnknownCommand(t *testing.T) {
	m := New(nil, zap.NewNop())

	if _, err := m.Send(context.Background(), testCommand{kind: "unknown"}); err == nil {
		t.Error("expected error for unregistered command")
	}
}

func TestMediator_SendReturnsHandlerValidationResult(t *testing.T) {
	m := New(nil, zap.NewNop())

	m.Register("order.place", func(ctx context.Context, cmd Command) (*apperrors.ValidationResult, error) {
		result := apperrors.NewValidationResult()
		result.AddError("cardNumber", "invalid card number")
		return result, nil
	})

	result, err := m.Send(context.Background(), testCommand{kind: "order.place"})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if result.IsValid() {
		t.Error("expected invalid result")
	}
	if len(result.Errors) != 1 || result.Errors[0].Field != "cardNumber" {
		t.Errorf("unexpected errors: %+v", result.Errors)
	}
}

func TestMediator_DispatchEventsFansOutAndClears(t *testing.T) {
	store := &mockEventStore{}
	m := New(store, zap.NewNop())

	var received []domain.Event
	m.SubscribeEvent(domain.EventOrderPlaced, func(ctx context.Context, event domain.Event) error {
		received = append(received, event)
		return nil
	})

	order := domain.NewOrder("order-1", "customer-1", 0, nil, false, 0, nil)
	order.Raise(domain.OrderPlacedEvent{OrderID: "order-1", CustomerID: "customer-1", Timestamp: time.Now().UTC()})

	m.DispatchEvents(context.Background(), order)

	if len(received) != 1 {
		t.Fatalf("expected 1 event delivered, got %d", len(received))
	}
	if len(store.stored) != 1 {
		t.Fatalf("expected 1 event stored, got %d", len(store.stored))
	}
	if events := order.DrainEvents(); len(events) != 0 {
		t.Errorf("expected pending events cleared, got %d", len(events))
	}
}

func TestMediator_DispatchEventsSurvivesSubscriberFailure(t *testing.T) {
	m := New(nil, zap.NewNop())

	reached := false
	m.SubscribeEvent(domain.EventOrderPlaced, func(ctx context.Context, event domain.Event) error {
		return errors.New("boom")
	})
	m.SubscribeEvent(domain.EventOrderPlaced, func(ctx context.Context, event domain.Event) error {
		reached = true
		return nil
	})

	order := domain.NewOrder("order-1", "customer-1", 0, nil, false, 0, nil)
	order.Raise(domain.OrderPlacedEvent{OrderID: "order-1", CustomerID: "customer-1"})

	m.DispatchEvents(context.Background(), order)

	if !reached {
		t.Error("second subscriber not reached after first failed")
	}
}

func TestMediator_DispatchEventsStoreFailureDoesNotBlockDelivery(t *testing.T) {
	store := &mockEventStore{
		StoreFunc: func(ctx context.Context, event domain.Event) error {
			return errors.New("db down")
		},
	}
	m := New(store, zap.NewNop())

	delivered := false
	m.SubscribeEvent(domain.EventOrderPlaced, func(ctx context.Context, event domain.Event) error {
		delivered = true
		return nil
	})

	order := domain.NewOrder("order-1", "customer-1", 0, nil, false, 0, nil)
	order.Raise(domain.OrderPlacedEvent{OrderID: "order-1", CustomerID: "customer-1"})

	m.DispatchEvents(context.Background(), order)

	if !delivered {
		t.Error("event not delivered when store failed")
	}
}
