package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"isengard/internal/domain"
	"isengard/internal/dto"
	apperrors "isengard/internal/errors"
	"isengard/internal/mediator"
	"isengard/internal/order/usecase"
)

type CommandSender interface {
	Send(ctx context.Context, cmd mediator.Command) (*apperrors.ValidationResult, error)
}

type OrderReader interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
}

type VoucherReader interface {
	GetByCode(ctx context.Context, code string) (*domain.Voucher, error)
}

type OrderController struct {
	sender   CommandSender
	orders   OrderReader
	vouchers VoucherReader
	logger   *zap.Logger
}

func NewOrderController(sender CommandSender, orders OrderReader, vouchers VoucherReader, logger *zap.Logger) *OrderController {
	return &OrderController{
		sender:   sender,
		orders:   orders,
		vouchers: vouchers,
		logger:   logger,
	}
}

// RegisterRoutes mounts the order endpoints on the router.
func (c *OrderController) RegisterRoutes(r chi.Router) {
	r.Post("/orders", c.PlaceOrder)
	r.Get("/orders/{orderId}", c.GetOrder)
	r.Get("/vouchers/{code}", c.GetVoucher)
}

func (c *OrderController) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	cmd := c.mapCommand(req)

	result, err := c.sender.Send(r.Context(), cmd)
	if err != nil {
		logger.Error("place order failed", zap.String("orderId", cmd.OrderID), zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, dto.ValidationErrorResponse{
			TraceID: traceID,
			Error:   "INTERNAL_ERROR",
			Message: "an unexpected error occurred",
		})
		return
	}

	if !result.IsValid() {
		c.writeValidationError(w, traceID, "order was not accepted", result.Errors...)
		return
	}

	c.writeJSON(w, http.StatusCreated, dto.PlaceOrderResponse{
		TraceID:   traceID,
		OrderID:   cmd.OrderID,
		Status:    string(domain.OrderStatusAuthorized),
		Timestamp: time.Now().UTC(),
	})
}

func (c *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	orderID := chi.URLParam(r, "orderId")

	order, err := c.orders.GetByID(r.Context(), orderID)
	if err != nil {
		c.handleReadError(w, traceID, err)
		return
	}

	items := make([]dto.OrderItemDTO, len(order.Items))
	for i, item := range order.Items {
		items[i] = dto.OrderItemDTO{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitValue: item.UnitValue,
			Image:     item.Image,
		}
	}

	c.writeJSON(w, http.StatusOK, dto.OrderResponse{
		ID:           order.ID,
		Code:         order.Code,
		CustomerID:   order.CustomerID,
		Status:       string(order.Status),
		TotalValue:   order.TotalValue,
		Discount:     order.Discount,
		VoucherUsed:  order.VoucherUsed,
		RegisterDate: order.RegisterDate,
		Items:        items,
		Address: dto.AddressDTO{
			Street:         order.Address.Street,
			Number:         order.Address.Number,
			AdditionalInfo: order.Address.AdditionalInfo,
			Neighborhood:   order.Address.Neighborhood,
			PostalCode:     order.Address.PostalCode,
			City:           order.Address.City,
			State:          order.Address.State,
		},
	})
}

func (c *OrderController) GetVoucher(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	code := chi.URLParam(r, "code")

	voucher, err := c.vouchers.GetByCode(r.Context(), code)
	if err != nil {
		c.handleReadError(w, traceID, err)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.VoucherResponse{
		Code:           voucher.Code,
		DiscountType:   string(voucher.DiscountType),
		Percentage:     voucher.Percentage,
		DiscountValue:  voucher.DiscountValue,
		Quantity:       voucher.Quantity,
		Active:         voucher.Active,
		Used:           voucher.Used,
		ExpirationDate: voucher.ExpirationDate,
	})
}

func (c *OrderController) mapCommand(req dto.PlaceOrderRequest) *usecase.PlaceOrderCommand {
	items := make([]domain.OrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = domain.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitValue: item.UnitValue,
			Image:     item.Image,
		}
	}

	return &usecase.PlaceOrderCommand{
		OrderID:     uuid.New().String(),
		CustomerID:  req.CustomerID,
		Items:       items,
		TotalValue:  req.TotalValue,
		Discount:    req.Discount,
		VoucherCode: req.VoucherCode,
		VoucherUsed: req.VoucherUsed,
		Address: domain.Address{
			Street:         req.Address.Street,
			Number:         req.Address.Number,
			AdditionalInfo: req.Address.AdditionalInfo,
			Neighborhood:   req.Address.Neighborhood,
			PostalCode:     req.Address.PostalCode,
			City:           req.Address.City,
			State:          req.Address.State,
		},
		CardName:       req.Card.Name,
		CardNumber:     req.Card.Number,
		CardExpiration: req.Card.Expiration,
		CardCVV:        req.Card.CVV,
	}
}

func (c *OrderController) handleReadError(w http.ResponseWriter, traceID string, err error) {
	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeJSON(w, http.StatusNotFound, dto.ValidationErrorResponse{
			TraceID: traceID,
			Error:   "NOT_FOUND",
			Message: err.Error(),
		})
		return
	}

	c.logger.Error("unexpected error", zap.String("traceId", traceID), zap.Error(err))
	c.writeJSON(w, http.StatusInternalServerError, dto.ValidationErrorResponse{
		TraceID: traceID,
		Error:   "INTERNAL_ERROR",
		Message: "an unexpected error occurred",
	})
}

func (c *OrderController) writeValidationError(w http.ResponseWriter, traceID string, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, dto.ValidationErrorResponse{
		TraceID: traceID,
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *OrderController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
