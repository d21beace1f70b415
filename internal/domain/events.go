package domain

import "time"

// Event is a domain event raised by an aggregate and published in-process
// after the unit of work that produced it commits.
type Event interface {
	EventName() string
	AggregateID() string
}

const (
	EventOrderPlaced   = "order.placed"
	EventOrderFinished = "order.finished"
	EventOrderCanceled = "order.canceled"
)

type OrderPlacedEvent struct {
	OrderID    string
	CustomerID string
	Timestamp  time.Time
}

func (e OrderPlacedEvent) EventName() string   { return EventOrderPlaced }
func (e OrderPlacedEvent) AggregateID() string { return e.OrderID }

type OrderFinishedEvent struct {
	OrderID    string
	CustomerID string
	Timestamp  time.Time
}

func (e OrderFinishedEvent) EventName() string   { return EventOrderFinished }
func (e OrderFinishedEvent) AggregateID() string { return e.OrderID }

type OrderCanceledEvent struct {
	OrderID    string
	CustomerID string
	Timestamp  time.Time
}

func (e OrderCanceledEvent) EventName() string   { return EventOrderCanceled }
func (e OrderCanceledEvent) AggregateID() string { return e.OrderID }
