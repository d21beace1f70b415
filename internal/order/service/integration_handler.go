package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"isengard/internal/bus"
	"isengard/internal/domain"
	apperrors "isengard/internal/errors"
	"isengard/internal/events"
	"isengard/internal/mediator"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, id string, status domain.OrderStatus) error
}

type EventDispatcher interface {
	DispatchEvents(ctx context.Context, source mediator.EventSource)
}

// IntegrationHandler reconciles saga outcomes reported by the other services
// back into the order records. A failed local commit after the outcome was
// already published is unrecoverable here, so it surfaces as a domain error
// and the transport redelivers.
type IntegrationHandler struct {
	db         TransactionManager
	orders     OrderRepository
	dispatcher EventDispatcher
	logger     *zap.Logger
}

func NewIntegrationHandler(db TransactionManager, orders OrderRepository, dispatcher EventDispatcher, logger *zap.Logger) *IntegrationHandler {
	return &IntegrationHandler{
		db:         db,
		orders:     orders,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Register subscribes the handler to the saga outcome topics.
func (h *IntegrationHandler) Register(messageBus bus.MessageBus) {
	messageBus.Subscribe(events.TopicOrderPaid, h.HandleOrderPaid)
	messageBus.Subscribe(events.TopicOrderCanceled, h.HandleOrderCanceled)
}

func (h *IntegrationHandler) HandleOrderPaid(ctx context.Context, data []byte) error {
	var event events.OrderPaid
	if err := json.Unmarshal(data, &event); err != nil {
		h.logger.Error("malformed order paid event", zap.Error(err))
		return err
	}

	return h.transition(ctx, event.OrderID, domain.OrderStatusPaid)
}

func (h *IntegrationHandler) HandleOrderCanceled(ctx context.Context, data []byte) error {
	var event events.OrderCanceled
	if err := json.Unmarshal(data, &event); err != nil {
		h.logger.Error("malformed order canceled event", zap.Error(err))
		return err
	}

	return h.transition(ctx, event.OrderID, domain.OrderStatusCanceled)
}

func (h *IntegrationHandler) transition(ctx context.Context, orderID string, status domain.OrderStatus) error {
	order, err := h.orders.GetByID(ctx, orderID)
	if err != nil {
		h.logger.Error("loading order for reconciliation failed",
			zap.String("orderId", orderID),
			zap.Error(err))
		return err
	}

	now := time.Now().UTC()
	switch status {
	case domain.OrderStatusPaid:
		order.FinishOrder()
		order.Raise(domain.OrderFinishedEvent{OrderID: order.ID, CustomerID: order.CustomerID, Timestamp: now})
	case domain.OrderStatusCanceled:
		order.CancelOrder()
		order.Raise(domain.OrderCanceledEvent{OrderID: order.ID, CustomerID: order.CustomerID, Timestamp: now})
	}

	if err := h.persistStatus(ctx, order); err != nil {
		return err
	}

	h.dispatcher.DispatchEvents(ctx, order)

	h.logger.Info("order reconciled",
		zap.String("orderId", order.ID),
		zap.String("status", string(order.Status)))
	return nil
}

func (h *IntegrationHandler) persistStatus(ctx context.Context, order *domain.Order) error {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewDomainError(order.ID, "beginning reconciliation transaction failed")
	}
	defer tx.Rollback()

	if err := h.orders.UpdateStatus(ctx, tx, order.ID, order.Status); err != nil {
		h.logger.Error("updating order status failed", zap.String("orderId", order.ID), zap.Error(err))
		return apperrors.NewDomainError(order.ID, "updating order status failed")
	}

	if err := tx.Commit(); err != nil {
		h.logger.Error("committing reconciliation failed", zap.String("orderId", order.ID), zap.Error(err))
		return apperrors.NewDomainError(order.ID, "committing order status update failed")
	}
	return nil
}
