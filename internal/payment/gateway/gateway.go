package gateway

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"isengard/internal/domain"
	"isengard/internal/validation"
)

// Gateway abstracts the card acquirer. Authorize reserves the amount on the
// card, Capture settles a previous authorization and CancelAuthorization
// releases it.
type Gateway interface {
	Authorize(ctx context.Context, payment domain.Payment) (domain.Transaction, error)
	Capture(ctx context.Context, transaction domain.Transaction) (domain.Transaction, error)
	CancelAuthorization(ctx context.Context, transaction domain.Transaction) (domain.Transaction, error)
}

const transactionCostRate = 0.03

// SimulatedGateway stands in for a real acquirer. Cards that pass the Luhn
// check are authorized, everything else is denied.
type SimulatedGateway struct {
	logger *zap.Logger
}

func NewSimulatedGateway(logger *zap.Logger) *SimulatedGateway {
	return &SimulatedGateway{logger: logger}
}

func (g *SimulatedGateway) Authorize(ctx context.Context, payment domain.Payment) (domain.Transaction, error) {
	transaction := domain.Transaction{
		ID:         uuid.New().String(),
		OrderID:    payment.OrderID,
		PaymentID:  payment.ID,
		CardBrand:  cardBrand(payment.CardNumber),
		TotalValue: payment.TotalValue,
		ExternalID: uuid.New().String(),
	}

	if !validation.IsValidCardNumber(payment.CardNumber) {
		transaction.Status = domain.TransactionDenied
		g.logger.Info("card authorization denied", zap.String("orderId", payment.OrderID))
		return transaction, nil
	}

	transaction.Status = domain.TransactionAuthorized
	transaction.AuthorizationCode = uuid.New().String()
	transaction.TransactionCost = payment.TotalValue * transactionCostRate
	g.logger.Info("card authorized",
		zap.String("orderId", payment.OrderID),
		zap.String("brand", transaction.CardBrand))
	return transaction, nil
}

func (g *SimulatedGateway) Capture(ctx context.Context, transaction domain.Transaction) (domain.Transaction, error) {
	captured := transaction
	captured.ID = uuid.New().String()
	captured.Status = domain.TransactionPaid
	captured.ExternalID = uuid.New().String()
	g.logger.Info("payment captured", zap.String("orderId", transaction.OrderID))
	return captured, nil
}

func (g *SimulatedGateway) CancelAuthorization(ctx context.Context, transaction domain.Transaction) (domain.Transaction, error) {
	canceled := transaction
	canceled.ID = uuid.New().String()
	canceled.Status = domain.TransactionCanceled
	canceled.ExternalID = uuid.New().String()
	g.logger.Info("authorization canceled", zap.String("orderId", transaction.OrderID))
	return canceled, nil
}

func cardBrand(number string) string {
	switch {
	case strings.HasPrefix(number, "4"):
		return "VISA"
	case strings.HasPrefix(number, "5"):
		return "MASTERCARD"
	case strings.HasPrefix(number, "3"):
		return "AMEX"
	default:
		return "UNKNOWN"
	}
}
