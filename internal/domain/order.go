package domain

import "time"

type OrderStatus string

const (
	OrderStatusCreated    OrderStatus = "CREATED"
	OrderStatusAuthorized OrderStatus = "AUTHORIZED"
	OrderStatusPaid       OrderStatus = "PAID"
	OrderStatusCanceled   OrderStatus = "CANCELED"
)

type Address struct {
	Street         string
	Number         string
	AdditionalInfo string
	Neighborhood   string
	PostalCode     string
	City           string
	State          string
}

type OrderItem struct {
	OrderID   string
	ProductID string
	Name      string
	Quantity  int
	UnitValue float64
	Image     string
}

func (i OrderItem) Subtotal() float64 {
	return float64(i.Quantity) * i.UnitValue
}

// Order is the aggregate root of the order service. Line items are set once
// at creation; status transitions are plain setters with no precondition on
// the current status.
type Order struct {
	ID           string
	Code         int
	CustomerID   string
	VoucherID    *string
	VoucherUsed  bool
	Discount     float64
	TotalValue   float64
	RegisterDate time.Time
	Status       OrderStatus
	Items        []OrderItem
	Address      Address

	voucher *Voucher
	pending []Event
}

func NewOrder(id, customerID string, totalValue float64, items []OrderItem, voucherUsed bool, discount float64, voucherID *string) *Order {
	for i := range items {
		items[i].OrderID = id
	}
	return &Order{
		ID:           id,
		CustomerID:   customerID,
		TotalValue:   totalValue,
		Items:        items,
		VoucherUsed:  voucherUsed,
		Discount:     discount,
		VoucherID:    voucherID,
		Status:       OrderStatusCreated,
		RegisterDate: time.Now().UTC(),
	}
}

func (o *Order) AuthorizeOrder() {
	o.Status = OrderStatusAuthorized
}

func (o *Order) CancelOrder() {
	o.Status = OrderStatusCanceled
}

func (o *Order) FinishOrder() {
	o.Status = OrderStatusPaid
}

func (o *Order) AssignVoucher(voucher *Voucher) {
	o.VoucherUsed = true
	o.VoucherID = &voucher.ID
	o.voucher = voucher
}

func (o *Order) AssignAddress(address Address) {
	o.Address = address
}

func (o *Order) Voucher() *Voucher {
	return o.voucher
}

// CalculateOrderValue recomputes the total from the line items and reapplies
// the voucher discount.
func (o *Order) CalculateOrderValue() {
	total := 0.0
	for _, item := range o.Items {
		total += item.Subtotal()
	}
	o.TotalValue = total
	o.calculateDiscount()
}

// calculateDiscount applies the voucher formula. The recorded discount is the
// raw computed amount even when it exceeds the total; the total itself is
// clamped at zero.
func (o *Order) calculateDiscount() {
	if !o.VoucherUsed || o.voucher == nil {
		return
	}

	discount := 0.0
	value := o.TotalValue

	switch o.voucher.DiscountType {
	case DiscountTypePercentage:
		if o.voucher.Percentage != nil {
			discount = value * *o.voucher.Percentage / 100
			value -= discount
		}
	case DiscountTypeFixedValue:
		if o.voucher.DiscountValue != nil {
			discount = *o.voucher.DiscountValue
			value -= discount
		}
	}

	if value < 0 {
		value = 0
	}
	o.TotalValue = value
	o.Discount = discount
}

// Raise queues a domain event for publication after the next commit.
func (o *Order) Raise(event Event) {
	o.pending = append(o.pending, event)
}

// DrainEvents returns the pending domain events and clears them.
func (o *Order) DrainEvents() []Event {
	events := o.pending
	o.pending = nil
	return events
}
