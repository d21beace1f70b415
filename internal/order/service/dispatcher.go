package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"isengard/internal/domain"
	"isengard/internal/events"
)

type AuthorizedOrderFinder interface {
	FindOldestAuthorized(ctx context.Context) (*domain.Order, error)
}

type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// OrderDispatcher periodically picks the oldest authorized order and hands it
// to the catalog service for stock deduction. One order per tick keeps the
// saga simple; the next tick picks up the next one.
type OrderDispatcher struct {
	orders   AuthorizedOrderFinder
	bus      Publisher
	interval time.Duration
	logger   *zap.Logger
}

func NewOrderDispatcher(orders AuthorizedOrderFinder, bus Publisher, interval time.Duration, logger *zap.Logger) *OrderDispatcher {
	return &OrderDispatcher{
		orders:   orders,
		bus:      bus,
		interval: interval,
		logger:   logger,
	}
}

// Run blocks until ctx is canceled, dispatching once per interval.
func (d *OrderDispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := d.DispatchNext(ctx); err != nil {
				d.logger.Error("order dispatch failed", zap.Error(err))
			}
		}
	}
}

// DispatchNext publishes the oldest authorized order, if any.
func (d *OrderDispatcher) DispatchNext(ctx context.Context) error {
	order, err := d.orders.FindOldestAuthorized(ctx)
	if err != nil {
		return err
	}
	if order == nil {
		return nil
	}

	items := make(map[string]int, len(order.Items))
	for _, item := range order.Items {
		items[item.ProductID] += item.Quantity
	}

	event := events.OrderAuthorized{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Items:      items,
	}
	if err := d.bus.Publish(ctx, events.TopicOrderAuthorized, event); err != nil {
		return err
	}

	d.logger.Info("order dispatched for stock deduction",
		zap.String("orderId", order.ID),
		zap.Int("itemCount", len(items)))
	return nil
}
