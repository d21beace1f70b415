package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"isengard/internal/bus"
	"isengard/internal/events"
)

type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// IntegrationHandler connects the payment service to the saga. It answers
// the synchronous authorization request during order placement and settles
// or releases the authorization once the stock outcome arrives.
type IntegrationHandler struct {
	payments *PaymentService
	bus      Publisher
	logger   *zap.Logger
}

func NewIntegrationHandler(payments *PaymentService, publisher Publisher, logger *zap.Logger) *IntegrationHandler {
	return &IntegrationHandler{
		payments: payments,
		bus:      publisher,
		logger:   logger,
	}
}

// Register wires the handler onto the bus.
func (h *IntegrationHandler) Register(messageBus bus.MessageBus) {
	messageBus.Respond(events.TopicOrderProcessingStarted, h.RespondProcessingStarted)
	messageBus.Subscribe(events.TopicOrderStockDeducted, h.HandleStockDeducted)
	messageBus.Subscribe(events.TopicOrderCanceled, h.HandleOrderCanceled)
}

// RespondProcessingStarted answers the authorization RPC from the order
// service.
func (h *IntegrationHandler) RespondProcessingStarted(ctx context.Context, data []byte) ([]byte, error) {
	var request events.OrderProcessingStarted
	if err := json.Unmarshal(data, &request); err != nil {
		h.logger.Error("malformed processing started request", zap.Error(err))
		return nil, err
	}

	result, err := h.payments.Authorize(ctx, request)
	if err != nil {
		h.logger.Error("payment authorization failed",
			zap.String("orderId", request.OrderID),
			zap.Error(err))
		return nil, err
	}

	return json.Marshal(events.ResponseMessage{Errors: result.Errors})
}

// HandleStockDeducted captures the authorization and reports the order as
// paid.
func (h *IntegrationHandler) HandleStockDeducted(ctx context.Context, data []byte) error {
	var event events.OrderStockDeducted
	if err := json.Unmarshal(data, &event); err != nil {
		h.logger.Error("malformed stock deducted event", zap.Error(err))
		return err
	}

	if _, err := h.payments.Capture(ctx, event.OrderID); err != nil {
		h.logger.Error("capture failed", zap.String("orderId", event.OrderID), zap.Error(err))
		return err
	}

	return h.bus.Publish(ctx, events.TopicOrderPaid, events.OrderPaid{
		OrderID:    event.OrderID,
		CustomerID: event.CustomerID,
	})
}

// HandleOrderCanceled releases the authorization of a canceled order.
func (h *IntegrationHandler) HandleOrderCanceled(ctx context.Context, data []byte) error {
	var event events.OrderCanceled
	if err := json.Unmarshal(data, &event); err != nil {
		h.logger.Error("malformed order canceled event", zap.Error(err))
		return err
	}

	if _, err := h.payments.Cancel(ctx, event.OrderID); err != nil {
		h.logger.Error("authorization release failed", zap.String("orderId", event.OrderID), zap.Error(err))
		return err
	}

	return nil
}
