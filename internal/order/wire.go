package order

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"isengard/internal/bus"
	"isengard/internal/config"
	"isengard/internal/errors"
	"isengard/internal/eventstore"
	"isengard/internal/mediator"
	"isengard/internal/order/controller"
	"isengard/internal/order/repository"
	"isengard/internal/order/service"
	"isengard/internal/order/usecase"
)

// timeoutRequester bounds the synchronous payment authorization so a stalled
// payment service cannot hold the checkout request open indefinitely.
type timeoutRequester struct {
	bus     bus.MessageBus
	timeout time.Duration
}

func (r timeoutRequester) Request(ctx context.Context, topic string, payload any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.bus.Request(ctx, topic, payload)
}

// Module bundles the wired order components a service binary needs.
type Module struct {
	Controller *controller.OrderController
	Dispatcher *service.OrderDispatcher
}

// NewModule wires the order service: the place-order command handler on the
// mediator, the domain event translators, the bus subscriptions for saga
// outcomes and the periodic dispatcher.
func NewModule(db *sql.DB, messageBus bus.MessageBus, cfg *config.Config, logger *zap.Logger) *Module {
	orderRepo := repository.NewMySQLOrderRepository(db)
	voucherRepo := repository.NewMySQLVoucherRepository(db)

	m := mediator.New(eventstore.NewMySQLEventStore(db), logger)

	requester := timeoutRequester{bus: messageBus, timeout: cfg.Order.PaymentTimeout}
	placeOrder := usecase.NewPlaceOrderUseCase(db, orderRepo, voucherRepo, requester, m, logger)
	m.Register(usecase.CommandPlaceOrder, func(ctx context.Context, cmd mediator.Command) (*errors.ValidationResult, error) {
		return placeOrder.Handle(ctx, cmd.(*usecase.PlaceOrderCommand))
	})

	service.NewEventTranslator(messageBus, logger).Register(m)
	service.NewIntegrationHandler(db, orderRepo, m, logger).Register(messageBus)

	return &Module{
		Controller: controller.NewOrderController(m, orderRepo, voucherRepo, logger),
		Dispatcher: service.NewOrderDispatcher(orderRepo, messageBus, cfg.Order.DispatchInterval, logger),
	}
}
