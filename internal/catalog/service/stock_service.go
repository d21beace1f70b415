package service

import (
	"context"
	"database/sql"
	"encoding/json"

	"go.uber.org/zap"

	"isengard/internal/bus"
	"isengard/internal/domain"
	apperrors "isengard/internal/errors"
	"isengard/internal/events"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type ProductRepository interface {
	GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
	UpdateStock(ctx context.Context, tx *sql.Tx, product *domain.Product) error
}

type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// StockService deducts stock for authorized orders. The deduction is all or
// nothing: any missing or unavailable product cancels the whole order and no
// stock changes.
type StockService struct {
	db       TransactionManager
	products ProductRepository
	bus      Publisher
	logger   *zap.Logger
}

func NewStockService(db TransactionManager, products ProductRepository, bus Publisher, logger *zap.Logger) *StockService {
	return &StockService{
		db:       db,
		products: products,
		bus:      bus,
		logger:   logger,
	}
}

// Register subscribes the service to authorized orders.
func (s *StockService) Register(messageBus bus.MessageBus) {
	messageBus.Subscribe(events.TopicOrderAuthorized, s.HandleOrderAuthorized)
}

func (s *StockService) HandleOrderAuthorized(ctx context.Context, data []byte) error {
	var event events.OrderAuthorized
	if err := json.Unmarshal(data, &event); err != nil {
		s.logger.Error("malformed order authorized event", zap.Error(err))
		return err
	}

	return s.DeductStock(ctx, event)
}

// DeductStock applies the order's quantities to the catalog. The outcome is
// reported on the bus: a stock deducted event on success, an order canceled
// event otherwise.
func (s *StockService) DeductStock(ctx context.Context, event events.OrderAuthorized) error {
	logger := s.logger.With(zap.String("orderId", event.OrderID))

	ids := make([]string, 0, len(event.Items))
	for id := range event.Items {
		ids = append(ids, id)
	}

	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		logger.Error("loading products failed", zap.Error(err))
		return err
	}

	byID := make(map[string]*domain.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	for id, quantity := range event.Items {
		product, ok := byID[id]
		if !ok {
			logger.Warn("product not found, canceling order", zap.String("productId", id))
			return s.cancel(ctx, event)
		}
		if !product.IsAvailable(quantity) {
			logger.Warn("product unavailable, canceling order",
				zap.String("productId", id),
				zap.Int("requested", quantity),
				zap.Int("stock", product.Stock))
			return s.cancel(ctx, event)
		}
	}

	if err := s.persistDeduction(ctx, event, byID); err != nil {
		return err
	}

	logger.Info("stock deducted", zap.Int("productCount", len(event.Items)))
	return s.bus.Publish(ctx, events.TopicOrderStockDeducted, events.OrderStockDeducted{
		OrderID:    event.OrderID,
		CustomerID: event.CustomerID,
	})
}

func (s *StockService) persistDeduction(ctx context.Context, event events.OrderAuthorized, byID map[string]*domain.Product) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewDomainError(event.OrderID, "beginning stock transaction failed")
	}
	defer tx.Rollback()

	for id, quantity := range event.Items {
		product := byID[id]
		product.DecrementStock(quantity)
		if err := s.products.UpdateStock(ctx, tx, product); err != nil {
			s.logger.Error("updating stock failed", zap.String("productId", id), zap.Error(err))
			return apperrors.NewDomainError(event.OrderID, "updating product stock failed")
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("committing stock deduction failed", zap.String("orderId", event.OrderID), zap.Error(err))
		return apperrors.NewDomainError(event.OrderID, "committing stock deduction failed")
	}
	return nil
}

func (s *StockService) cancel(ctx context.Context, event events.OrderAuthorized) error {
	return s.bus.Publish(ctx, events.TopicOrderCanceled, events.OrderCanceled{
		OrderID:    event.OrderID,
		CustomerID: event.CustomerID,
	})
}
