package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 { return &v }

func activeVoucher(discountType VoucherDiscountType) *Voucher {
	return &Voucher{
		ID:             "voucher-1",
		Code:           "PROMO",
		Quantity:       5,
		DiscountType:   discountType,
		Active:         true,
		CreatedAt:      time.Now().UTC().Add(-24 * time.Hour),
		ExpirationDate: time.Now().UTC().Add(24 * time.Hour),
	}
}

func TestOrder_CalculateOrderValue(t *testing.T) {
	order := NewOrder("order-1", "customer-1", 0, []OrderItem{
		{ProductID: "p1", Name: "keyboard", Quantity: 2, UnitValue: 30},
		{ProductID: "p2", Name: "mouse", Quantity: 1, UnitValue: 40},
	}, false, 0, nil)

	order.CalculateOrderValue()

	assert.Equal(t, 100.0, order.TotalValue)
	assert.Equal(t, 0.0, order.Discount)
}

func TestOrder_PercentageVoucher(t *testing.T) {
	voucher := activeVoucher(DiscountTypePercentage)
	voucher.Percentage = floatPtr(10)

	order := NewOrder("order-1", "customer-1", 0, []OrderItem{
		{ProductID: "p1", Quantity: 1, UnitValue: 100},
	}, false, 0, nil)
	order.AssignVoucher(voucher)

	order.CalculateOrderValue()

	assert.Equal(t, 10.0, order.Discount)
	assert.Equal(t, 90.0, order.TotalValue)
}

func TestOrder_FixedValueVoucherExceedsTotal(t *testing.T) {
	voucher := activeVoucher(DiscountTypeFixedValue)
	voucher.DiscountValue = floatPtr(100)

	order := NewOrder("order-1", "customer-1", 0, []OrderItem{
		{ProductID: "p1", Quantity: 1, UnitValue: 40},
	}, false, 0, nil)
	order.AssignVoucher(voucher)

	order.CalculateOrderValue()

	// The recorded discount keeps the raw amount even past the total.
	assert.Equal(t, 100.0, order.Discount)
	assert.Equal(t, 0.0, order.TotalValue)
}

func TestOrder_VoucherWithUnsetDiscountField(t *testing.T) {
	voucher := activeVoucher(DiscountTypePercentage)
	// Percentage left nil for a percentage voucher.

	order := NewOrder("order-1", "customer-1", 0, []OrderItem{
		{ProductID: "p1", Quantity: 1, UnitValue: 80},
	}, false, 0, nil)
	order.AssignVoucher(voucher)

	order.CalculateOrderValue()

	assert.Equal(t, 0.0, order.Discount)
	assert.Equal(t, 80.0, order.TotalValue)
	assert.True(t, order.VoucherUsed)
}

func TestOrder_AssignVoucherLinksID(t *testing.T) {
	voucher := activeVoucher(DiscountTypeFixedValue)
	order := NewOrder("order-1", "customer-1", 0, nil, false, 0, nil)

	order.AssignVoucher(voucher)

	assert.True(t, order.VoucherUsed)
	if assert.NotNil(t, order.VoucherID) {
		assert.Equal(t, voucher.ID, *order.VoucherID)
	}
	assert.Equal(t, voucher, order.Voucher())
}

func TestOrder_StatusTransitionsAreUnguarded(t *testing.T) {
	// Documents the present behavior: the setters apply in any sequence with
	// no precondition on the current status.
	order := NewOrder("order-1", "customer-1", 0, nil, false, 0, nil)
	assert.Equal(t, OrderStatusCreated, order.Status)

	order.FinishOrder()
	assert.Equal(t, OrderStatusPaid, order.Status)

	order.AuthorizeOrder()
	assert.Equal(t, OrderStatusAuthorized, order.Status)

	order.CancelOrder()
	assert.Equal(t, OrderStatusCanceled, order.Status)

	order.FinishOrder()
	assert.Equal(t, OrderStatusPaid, order.Status)
}

func TestOrder_RaiseAndDrainEvents(t *testing.T) {
	order := NewOrder("order-1", "customer-1", 0, nil, false, 0, nil)

	order.Raise(OrderPlacedEvent{OrderID: order.ID, CustomerID: order.CustomerID, Timestamp: time.Now().UTC()})
	order.Raise(OrderFinishedEvent{OrderID: order.ID, CustomerID: order.CustomerID, Timestamp: time.Now().UTC()})

	events := order.DrainEvents()
	assert.Len(t, events, 2)
	assert.Equal(t, EventOrderPlaced, events[0].EventName())
	assert.Equal(t, EventOrderFinished, events[1].EventName())

	assert.Empty(t, order.DrainEvents())
}

func TestOrderItem_Subtotal(t *testing.T) {
	item := OrderItem{ProductID: "p1", Quantity: 3, UnitValue: 29.99}
	assert.InDelta(t, 89.97, item.Subtotal(), 0.0001)
}

func TestNewOrder_StampsItemsWithOrderID(t *testing.T) {
	order := NewOrder("order-7", "customer-1", 0, []OrderItem{
		{ProductID: "p1", Quantity: 1, UnitValue: 10},
		{ProductID: "p2", Quantity: 2, UnitValue: 5},
	}, false, 0, nil)

	for _, item := range order.Items {
		assert.Equal(t, "order-7", item.OrderID)
	}
}
