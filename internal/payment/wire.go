package payment

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"isengard/internal/bus"
	"isengard/internal/payment/gateway"
	"isengard/internal/payment/repository"
	"isengard/internal/payment/service"
)

// NewModule wires the payment service: the simulated gateway behind the
// authorization RPC and the capture/cancel saga subscriptions. The payment
// schema is migrated before anything subscribes.
func NewModule(ctx context.Context, pool *pgxpool.Pool, messageBus bus.MessageBus, logger *zap.Logger) (*service.IntegrationHandler, error) {
	paymentRepo := repository.NewPostgresPaymentRepository(pool)
	if err := paymentRepo.RunMigrations(ctx); err != nil {
		return nil, err
	}

	gw := gateway.NewSimulatedGateway(logger)
	paymentSvc := service.NewPaymentService(gw, paymentRepo, logger)

	handler := service.NewIntegrationHandler(paymentSvc, messageBus, logger)
	handler.Register(messageBus)

	return handler, nil
}
