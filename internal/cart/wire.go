package cart

import (
	"database/sql"

	"go.uber.org/zap"

	"isengard/internal/bus"
	"isengard/internal/cart/repository"
	"isengard/internal/cart/service"
)

// NewModule wires the cart service: the cleanup handler listening for placed
// and finished orders.
func NewModule(db *sql.DB, messageBus bus.MessageBus, logger *zap.Logger) *service.CleanupService {
	cartRepo := repository.NewMySQLCartRepository(db)

	cleanupSvc := service.NewCleanupService(cartRepo, logger)
	cleanupSvc.Register(messageBus)

	return cleanupSvc
}
