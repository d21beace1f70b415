package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"isengard/internal/bus"
	"isengard/internal/domain"
	apperrors "isengard/internal/errors"
	"isengard/internal/events"
)

type CartRepository interface {
	GetByCustomerID(ctx context.Context, customerID string) (*domain.CustomerCart, error)
	Delete(ctx context.Context, cart *domain.CustomerCart) error
}

// CleanupService empties a customer's cart once their order goes through.
// Both the placed and the finished notifications trigger it, so the cart is
// gone as soon as either arrives; a missing cart is not an error.
type CleanupService struct {
	carts  CartRepository
	logger *zap.Logger
}

func NewCleanupService(carts CartRepository, logger *zap.Logger) *CleanupService {
	return &CleanupService{carts: carts, logger: logger}
}

// Register subscribes the service to the order notifications.
func (s *CleanupService) Register(messageBus bus.MessageBus) {
	messageBus.Subscribe(events.TopicOrderPlaced, s.HandleOrderPlaced)
	messageBus.Subscribe(events.TopicOrderFinished, s.HandleOrderFinished)
}

func (s *CleanupService) HandleOrderPlaced(ctx context.Context, data []byte) error {
	var event events.OrderPlaced
	if err := json.Unmarshal(data, &event); err != nil {
		s.logger.Error("malformed order placed event", zap.Error(err))
		return err
	}
	return s.RemoveCart(ctx, event.CustomerID)
}

func (s *CleanupService) HandleOrderFinished(ctx context.Context, data []byte) error {
	var event events.OrderFinished
	if err := json.Unmarshal(data, &event); err != nil {
		s.logger.Error("malformed order finished event", zap.Error(err))
		return err
	}
	return s.RemoveCart(ctx, event.CustomerID)
}

// RemoveCart deletes the customer's cart if one exists.
func (s *CleanupService) RemoveCart(ctx context.Context, customerID string) error {
	cart, err := s.carts.GetByCustomerID(ctx, customerID)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil
		}
		s.logger.Error("loading cart failed", zap.String("customerId", customerID), zap.Error(err))
		return err
	}

	if err := s.carts.Delete(ctx, cart); err != nil {
		s.logger.Error("deleting cart failed", zap.String("customerId", customerID), zap.Error(err))
		return err
	}

	s.logger.Info("cart removed", zap.String("customerId", customerID), zap.Int("itemCount", len(cart.Items)))
	return nil
}
