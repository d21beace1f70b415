package domain

type TransactionStatus string

const (
	TransactionAuthorized TransactionStatus = "AUTHORIZED"
	TransactionPaid       TransactionStatus = "PAID"
	TransactionCanceled   TransactionStatus = "CANCELED"
	TransactionDenied     TransactionStatus = "DENIED"
)

type Payment struct {
	ID             string
	OrderID        string
	TotalValue     float64
	CardName       string
	CardNumber     string
	CardExpiration string
	CardCVV        string
}

// Transaction records one phase of a payment at the gateway. Transactions are
// append-only per order: each phase change creates a new record, and the
// current phase is whatever the most recent record with a given status says.
type Transaction struct {
	ID                string
	OrderID           string
	PaymentID         string
	AuthorizationCode string
	CardBrand         string
	Status            TransactionStatus
	TotalValue        float64
	TransactionCost   float64
	ExternalID        string
}
