package usecase

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"isengard/internal/domain"
	apperrors "isengard/internal/errors"
	"isengard/internal/events"
	"isengard/internal/mediator"
	"isengard/internal/validation"
)

const CommandPlaceOrder = "order.place"

// PlaceOrderCommand carries everything the client declared when checking out.
// Declared totals are re-verified server side before anything is persisted.
type PlaceOrderCommand struct {
	OrderID     string
	CustomerID  string
	Items       []domain.OrderItem
	TotalValue  float64
	Discount    float64
	VoucherCode string
	VoucherUsed bool
	Address     domain.Address

	CardName       string
	CardNumber     string
	CardExpiration string
	CardCVV        string
}

func (c *PlaceOrderCommand) Kind() string { return CommandPlaceOrder }

// Validate runs the structural rules. Every rule is evaluated so the caller
// sees all failures at once.
func (c *PlaceOrderCommand) Validate() *apperrors.ValidationResult {
	result := apperrors.NewValidationResult()

	if c.CustomerID == "" {
		result.AddError("customerId", "customer id is required")
	}
	if len(c.Items) == 0 {
		result.AddError("items", "the order needs at least one item")
	}
	if c.TotalValue <= 0 {
		result.AddError("totalValue", "order total must be greater than zero")
	}
	if !validation.IsValidCardNumber(c.CardNumber) {
		result.AddError("card.number", "invalid card number")
	}
	if c.CardName == "" {
		result.AddError("card.name", "card holder name is required")
	}
	if len(c.CardCVV) < 3 || len(c.CardCVV) > 4 {
		result.AddError("card.cvv", "card cvv must have 3 or 4 digits")
	}
	if c.CardExpiration == "" {
		result.AddError("card.expiration", "card expiration date is required")
	}

	return result
}

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type OrderRepository interface {
	Add(ctx context.Context, tx *sql.Tx, order *domain.Order) error
}

type VoucherRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.Voucher, error)
	Update(ctx context.Context, tx *sql.Tx, voucher *domain.Voucher) error
}

// PaymentRequester is the synchronous request/response slice of the bus.
type PaymentRequester interface {
	Request(ctx context.Context, topic string, payload any) ([]byte, error)
}

// EventDispatcher publishes an aggregate's pending domain events after the
// unit of work commits.
type EventDispatcher interface {
	DispatchEvents(ctx context.Context, source mediator.EventSource)
}

type PlaceOrderUseCase struct {
	db          TransactionManager
	orderRepo   OrderRepository
	voucherRepo VoucherRepository
	bus         PaymentRequester
	dispatcher  EventDispatcher
	logger      *zap.Logger
}

func NewPlaceOrderUseCase(
	db TransactionManager,
	orderRepo OrderRepository,
	voucherRepo VoucherRepository,
	bus PaymentRequester,
	dispatcher EventDispatcher,
	logger *zap.Logger,
) *PlaceOrderUseCase {
	return &PlaceOrderUseCase{
		db:          db,
		orderRepo:   orderRepo,
		voucherRepo: voucherRepo,
		bus:         bus,
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

// Handle runs the place-order command. Business-rule failures come back in
// the ValidationResult; only infrastructure failures return an error.
func (uc *PlaceOrderUseCase) Handle(ctx context.Context, cmd *PlaceOrderCommand) (*apperrors.ValidationResult, error) {
	result := cmd.Validate()
	if !result.IsValid() {
		return result, nil
	}

	order := uc.mapOrder(cmd)
	logger := uc.logger.With(zap.String("orderId", order.ID), zap.String("customerId", order.CustomerID))

	voucher, ok := uc.applyVoucher(ctx, cmd, order, result)
	if !ok {
		return result, nil
	}

	if !uc.validateOrder(order, result) {
		return result, nil
	}

	ok, err := uc.processPayment(ctx, order, cmd, result)
	if err != nil {
		return nil, err
	}
	if !ok {
		logger.Info("payment authorization refused", zap.Int("errors", len(result.Errors)))
		return result, nil
	}

	order.AuthorizeOrder()
	order.Raise(domain.OrderPlacedEvent{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Timestamp:  order.RegisterDate,
	})

	if err := uc.persist(ctx, order, voucher); err != nil {
		return nil, err
	}

	uc.dispatcher.DispatchEvents(ctx, order)

	logger.Info("order placed", zap.Int("code", order.Code), zap.Float64("totalValue", order.TotalValue))
	return result, nil
}

func (uc *PlaceOrderUseCase) mapOrder(cmd *PlaceOrderCommand) *domain.Order {
	id := cmd.OrderID
	if id == "" {
		id = uuid.New().String()
	}

	order := domain.NewOrder(id, cmd.CustomerID, cmd.TotalValue, cmd.Items, cmd.VoucherUsed, cmd.Discount, nil)
	order.AssignAddress(cmd.Address)
	return order
}

// applyVoucher resolves and consumes the voucher named by the command. The
// bool result reports whether handling may continue.
func (uc *PlaceOrderUseCase) applyVoucher(ctx context.Context, cmd *PlaceOrderCommand, order *domain.Order, result *apperrors.ValidationResult) (*domain.Voucher, bool) {
	if !cmd.VoucherUsed {
		return nil, true
	}

	voucher, err := uc.voucherRepo.GetByCode(ctx, cmd.VoucherCode)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			result.AddError("voucherCode", "voucher does not exist")
			return nil, false
		}
		uc.logger.Error("voucher lookup failed", zap.String("code", cmd.VoucherCode), zap.Error(err))
		result.AddError("voucherCode", "voucher could not be verified")
		return nil, false
	}

	if details := voucher.Validate(); len(details) > 0 {
		result.Append(details...)
		return nil, false
	}

	order.AssignVoucher(voucher)
	voucher.DebitQuantity()
	return voucher, true
}

// validateOrder recomputes the totals and rejects orders whose declared
// values do not match, guarding against client-supplied totals.
func (uc *PlaceOrderUseCase) validateOrder(order *domain.Order, result *apperrors.ValidationResult) bool {
	declaredTotal := order.TotalValue
	declaredDiscount := order.Discount

	order.CalculateOrderValue()

	if order.TotalValue != declaredTotal {
		result.AddError("totalValue", "order total does not match the calculated value")
	}
	if order.Discount != declaredDiscount {
		result.AddError("discount", "order discount does not match the calculated value")
	}

	return result.IsValid()
}

// processPayment runs the synchronous authorization over the bus. Gateway
// refusals land in the ValidationResult; transport failures return an error.
func (uc *PlaceOrderUseCase) processPayment(ctx context.Context, order *domain.Order, cmd *PlaceOrderCommand, result *apperrors.ValidationResult) (bool, error) {
	request := events.OrderProcessingStarted{
		OrderID:        order.ID,
		CustomerID:     order.CustomerID,
		TotalValue:     order.TotalValue,
		CardName:       cmd.CardName,
		CardNumber:     cmd.CardNumber,
		CardExpiration: cmd.CardExpiration,
		CardCVV:        cmd.CardCVV,
	}

	reply, err := uc.bus.Request(ctx, events.TopicOrderProcessingStarted, request)
	if err != nil {
		return false, fmt.Errorf("requesting payment authorization: %w", err)
	}

	var response events.ResponseMessage
	if err := json.Unmarshal(reply, &response); err != nil {
		return false, fmt.Errorf("decoding payment authorization reply: %w", err)
	}

	if !response.IsValid() {
		result.Append(response.Errors...)
		return false, nil
	}
	return true, nil
}

// persist writes the order and the voucher debit in one local transaction.
func (uc *PlaceOrderUseCase) persist(ctx context.Context, order *domain.Order, voucher *domain.Voucher) error {
	tx, err := uc.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewInternalError("beginning order transaction", err)
	}
	defer tx.Rollback()

	if err := uc.orderRepo.Add(ctx, tx, order); err != nil {
		return apperrors.NewInternalError("persisting order", err)
	}

	if voucher != nil {
		if err := uc.voucherRepo.Update(ctx, tx, voucher); err != nil {
			return apperrors.NewInternalError("persisting voucher debit", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewInternalError("committing order", err)
	}
	return nil
}
