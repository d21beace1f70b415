package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"isengard/internal/domain"
	apperrors "isengard/internal/errors"
	"isengard/internal/events"
	"isengard/internal/payment/gateway"
)

type PaymentRepository interface {
	SavePayment(ctx context.Context, payment domain.Payment, transaction domain.Transaction) error
	AddTransaction(ctx context.Context, transaction domain.Transaction) error
	GetTransactionsByOrderID(ctx context.Context, orderID string) ([]domain.Transaction, error)
}

// PaymentService drives the two payment phases. Authorize reserves the
// amount during order placement; Capture and Cancel settle or release it once
// the stock outcome is known.
type PaymentService struct {
	gateway  gateway.Gateway
	payments PaymentRepository
	logger   *zap.Logger
}

func NewPaymentService(gw gateway.Gateway, payments PaymentRepository, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		gateway:  gw,
		payments: payments,
		logger:   logger,
	}
}

// Authorize runs the first payment phase. A gateway refusal comes back in
// the ValidationResult with nothing persisted. When recording an approved
// authorization fails, the authorization is canceled at the gateway so no
// reservation leaks.
func (s *PaymentService) Authorize(ctx context.Context, request events.OrderProcessingStarted) (*apperrors.ValidationResult, error) {
	result := apperrors.NewValidationResult()

	payment := domain.Payment{
		ID:             uuid.New().String(),
		OrderID:        request.OrderID,
		TotalValue:     request.TotalValue,
		CardName:       request.CardName,
		CardNumber:     request.CardNumber,
		CardExpiration: request.CardExpiration,
		CardCVV:        request.CardCVV,
	}

	transaction, err := s.gateway.Authorize(ctx, payment)
	if err != nil {
		return nil, err
	}

	if transaction.Status != domain.TransactionAuthorized {
		result.AddError("payment", "payment was refused by the card issuer")
		return result, nil
	}

	if err := s.payments.SavePayment(ctx, payment, transaction); err != nil {
		s.logger.Error("recording authorization failed, canceling at gateway",
			zap.String("orderId", request.OrderID),
			zap.Error(err))
		s.compensateAuthorization(ctx, transaction)
		result.AddError("payment", "payment could not be recorded")
		return result, nil
	}

	s.logger.Info("payment authorized",
		zap.String("orderId", request.OrderID),
		zap.Float64("totalValue", request.TotalValue))
	return result, nil
}

// compensateAuthorization releases an authorization whose local record was
// lost. The canceled transaction is persisted best effort.
func (s *PaymentService) compensateAuthorization(ctx context.Context, transaction domain.Transaction) {
	canceled, err := s.gateway.CancelAuthorization(ctx, transaction)
	if err != nil {
		s.logger.Error("compensating cancellation failed",
			zap.String("orderId", transaction.OrderID),
			zap.Error(err))
		return
	}
	if err := s.payments.AddTransaction(ctx, canceled); err != nil {
		s.logger.Warn("recording compensating cancellation failed",
			zap.String("orderId", transaction.OrderID),
			zap.Error(err))
	}
}

// Capture settles the order's open authorization.
func (s *PaymentService) Capture(ctx context.Context, orderID string) (domain.Transaction, error) {
	authorized, err := s.openAuthorization(ctx, orderID)
	if err != nil {
		return domain.Transaction{}, err
	}

	captured, err := s.gateway.Capture(ctx, *authorized)
	if err != nil {
		return domain.Transaction{}, err
	}
	if captured.Status != domain.TransactionPaid {
		s.logger.Warn("capture denied by gateway",
			zap.String("orderId", orderID),
			zap.String("status", string(captured.Status)))
		return domain.Transaction{}, apperrors.NewDomainError(orderID, "capture was denied by the gateway")
	}

	if err := s.payments.AddTransaction(ctx, captured); err != nil {
		return domain.Transaction{}, apperrors.NewDomainError(orderID, "recording capture failed")
	}

	s.logger.Info("payment captured", zap.String("orderId", orderID))
	return captured, nil
}

// Cancel releases the order's open authorization.
func (s *PaymentService) Cancel(ctx context.Context, orderID string) (domain.Transaction, error) {
	authorized, err := s.openAuthorization(ctx, orderID)
	if err != nil {
		return domain.Transaction{}, err
	}

	canceled, err := s.gateway.CancelAuthorization(ctx, *authorized)
	if err != nil {
		return domain.Transaction{}, err
	}
	if canceled.Status != domain.TransactionCanceled {
		s.logger.Warn("cancellation denied by gateway",
			zap.String("orderId", orderID),
			zap.String("status", string(canceled.Status)))
		return domain.Transaction{}, apperrors.NewDomainError(orderID, "cancellation was denied by the gateway")
	}

	if err := s.payments.AddTransaction(ctx, canceled); err != nil {
		return domain.Transaction{}, apperrors.NewDomainError(orderID, "recording cancellation failed")
	}

	s.logger.Info("authorization canceled", zap.String("orderId", orderID))
	return canceled, nil
}

// openAuthorization returns the order's authorized transaction, provided no
// later transaction already settled or released it.
func (s *PaymentService) openAuthorization(ctx context.Context, orderID string) (*domain.Transaction, error) {
	transactions, err := s.payments.GetTransactionsByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var authorized *domain.Transaction
	for i := range transactions {
		switch transactions[i].Status {
		case domain.TransactionPaid, domain.TransactionCanceled:
			return nil, apperrors.NewDomainError(orderID, "payment authorization already settled")
		case domain.TransactionAuthorized:
			if authorized == nil {
				authorized = &transactions[i]
			}
		}
	}

	if authorized == nil {
		return nil, apperrors.NewDomainError(orderID, "no open payment authorization")
	}
	return authorized, nil
}
