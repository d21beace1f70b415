package catalog

import (
	"database/sql"

	"go.uber.org/zap"

	"isengard/internal/bus"
	"isengard/internal/catalog/repository"
	"isengard/internal/catalog/service"
)

// NewModule wires the catalog service: the stock deduction handler listening
// for authorized orders.
func NewModule(db *sql.DB, messageBus bus.MessageBus, logger *zap.Logger) *service.StockService {
	productRepo := repository.NewMySQLProductRepository(db)

	stockSvc := service.NewStockService(db, productRepo, messageBus, logger)
	stockSvc.Register(messageBus)

	return stockSvc
}
