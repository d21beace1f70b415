package events

import "isengard/internal/errors"

// Bus topics. One fanout exchange per topic on the RabbitMQ transport.
const (
	TopicOrderPlaced            = "order.placed"
	TopicOrderFinished          = "order.finished"
	TopicOrderAuthorized        = "order.authorized"
	TopicOrderStockDeducted     = "order.stock-deducted"
	TopicOrderCanceled          = "order.canceled"
	TopicOrderPaid              = "order.paid"
	TopicOrderProcessingStarted = "order.processing-started"
)

type OrderPlaced struct {
	CustomerID string `json:"customerId"`
}

type OrderFinished struct {
	CustomerID string `json:"customerId"`
}

type OrderAuthorized struct {
	OrderID    string         `json:"orderId"`
	CustomerID string         `json:"customerId"`
	Items      map[string]int `json:"items"`
}

type OrderStockDeducted struct {
	OrderID    string `json:"orderId"`
	CustomerID string `json:"customerId"`
}

type OrderCanceled struct {
	OrderID    string `json:"orderId"`
	CustomerID string `json:"customerId"`
}

type OrderPaid struct {
	OrderID    string `json:"orderId"`
	CustomerID string `json:"customerId"`
}

// OrderProcessingStarted is the request side of the synchronous payment
// authorization RPC.
type OrderProcessingStarted struct {
	OrderID        string  `json:"orderId"`
	CustomerID     string  `json:"customerId"`
	TotalValue     float64 `json:"totalValue"`
	CardName       string  `json:"cardName"`
	CardNumber     string  `json:"cardNumber"`
	CardExpiration string  `json:"cardExpiration"`
	CardCVV        string  `json:"cardCvv"`
}

// ResponseMessage is the reply side of bus request/response calls. An empty
// Errors slice means the request was accepted.
type ResponseMessage struct {
	Errors []errors.ValidationDetail `json:"errors"`
}

func (r ResponseMessage) IsValid() bool {
	return len(r.Errors) == 0
}
