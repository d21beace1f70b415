package dto

import (
	"time"

	apperrors "isengard/internal/errors"
)

type PlaceOrderRequest struct {
	CustomerID  string           `json:"customerId"`
	Items       []PlaceOrderItem `json:"items"`
	TotalValue  float64          `json:"totalValue"`
	Discount    float64          `json:"discount"`
	VoucherCode string           `json:"voucherCode,omitempty"`
	VoucherUsed bool             `json:"voucherUsed"`
	Address     AddressDTO       `json:"address"`
	Card        CardDTO          `json:"card"`
}

type PlaceOrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitValue float64 `json:"unitValue"`
	Image     string  `json:"image,omitempty"`
}

type AddressDTO struct {
	Street         string `json:"street"`
	Number         string `json:"number"`
	AdditionalInfo string `json:"additionalInfo,omitempty"`
	Neighborhood   string `json:"neighborhood"`
	PostalCode     string `json:"postalCode"`
	City           string `json:"city"`
	State          string `json:"state"`
}

type CardDTO struct {
	Name       string `json:"name"`
	Number     string `json:"number"`
	Expiration string `json:"expiration"`
	CVV        string `json:"cvv"`
}

type PlaceOrderResponse struct {
	TraceID   string    `json:"traceId"`
	OrderID   string    `json:"orderId"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type OrderResponse struct {
	ID           string         `json:"id"`
	Code         int            `json:"code"`
	CustomerID   string         `json:"customerId"`
	Status       string         `json:"status"`
	TotalValue   float64        `json:"totalValue"`
	Discount     float64        `json:"discount"`
	VoucherUsed  bool           `json:"voucherUsed"`
	RegisterDate time.Time      `json:"registerDate"`
	Items        []OrderItemDTO `json:"items"`
	Address      AddressDTO     `json:"address"`
}

type OrderItemDTO struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitValue float64 `json:"unitValue"`
	Image     string  `json:"image,omitempty"`
}

type VoucherResponse struct {
	Code           string    `json:"code"`
	DiscountType   string    `json:"discountType"`
	Percentage     *float64  `json:"percentage,omitempty"`
	DiscountValue  *float64  `json:"discountValue,omitempty"`
	Quantity       int       `json:"quantity"`
	Active         bool      `json:"active"`
	Used           bool      `json:"used"`
	ExpirationDate time.Time `json:"expirationDate"`
}

type ValidationErrorResponse struct {
	TraceID string                       `json:"traceId"`
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}
