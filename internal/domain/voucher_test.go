package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func usableVoucher() *Voucher {
	return &Voucher{
		ID:             "voucher-1",
		Code:           "PROMO",
		Quantity:       3,
		DiscountType:   DiscountTypePercentage,
		Percentage:     floatPtr(15),
		Active:         true,
		CreatedAt:      time.Now().UTC().Add(-time.Hour),
		ExpirationDate: time.Now().UTC().Add(time.Hour),
	}
}

func TestVoucher_IsValidForUse(t *testing.T) {
	assert.True(t, usableVoucher().IsValidForUse())
}

func TestVoucher_Validate_Inactive(t *testing.T) {
	voucher := usableVoucher()
	voucher.Active = false

	details := voucher.Validate()

	assert.False(t, voucher.IsValidForUse())
	assert.Len(t, details, 1)
	assert.Equal(t, "voucher is no longer active", details[0].Message)
}

func TestVoucher_Validate_Expired(t *testing.T) {
	voucher := usableVoucher()
	voucher.ExpirationDate = time.Now().UTC().Add(-time.Minute)

	details := voucher.Validate()

	assert.Len(t, details, 1)
	assert.Equal(t, "voucher has expired", details[0].Message)
}

func TestVoucher_Validate_Exhausted(t *testing.T) {
	voucher := usableVoucher()
	voucher.Quantity = 0

	details := voucher.Validate()

	assert.Len(t, details, 1)
	assert.Equal(t, "voucher is no longer available", details[0].Message)
}

func TestVoucher_Validate_ReportsEveryFailingRule(t *testing.T) {
	voucher := usableVoucher()
	voucher.Active = false
	voucher.Quantity = 0
	voucher.ExpirationDate = time.Now().UTC().Add(-time.Minute)

	details := voucher.Validate()

	assert.Len(t, details, 3)
}

func TestVoucher_DebitQuantity(t *testing.T) {
	voucher := usableVoucher()
	voucher.Quantity = 3

	voucher.DebitQuantity()

	assert.Equal(t, 2, voucher.Quantity)
	assert.True(t, voucher.Active)
	assert.False(t, voucher.Used)
	assert.Nil(t, voucher.UsedAt)
}

func TestVoucher_DebitQuantity_LastUseMarksUsed(t *testing.T) {
	voucher := usableVoucher()
	voucher.Quantity = 1

	voucher.DebitQuantity()

	assert.Equal(t, 0, voucher.Quantity)
	assert.False(t, voucher.Active)
	assert.True(t, voucher.Used)
	assert.NotNil(t, voucher.UsedAt)
	assert.False(t, voucher.IsValidForUse())
}
