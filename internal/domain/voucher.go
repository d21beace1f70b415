package domain

import (
	"time"

	"isengard/internal/errors"
)

type VoucherDiscountType string

const (
	DiscountTypePercentage VoucherDiscountType = "PERCENTAGE"
	DiscountTypeFixedValue VoucherDiscountType = "FIXED_VALUE"
)

type Voucher struct {
	ID             string
	Code           string
	Percentage     *float64
	DiscountValue  *float64
	Quantity       int
	DiscountType   VoucherDiscountType
	CreatedAt      time.Time
	UsedAt         *time.Time
	ExpirationDate time.Time
	Active         bool
	Used           bool
}

// voucherRule pairs a rule name with its predicate so validation can report
// exactly which rule failed.
type voucherRule struct {
	message   string
	satisfied func(v *Voucher, now time.Time) bool
}

var voucherRules = []voucherRule{
	{
		message: "voucher is no longer active",
		satisfied: func(v *Voucher, _ time.Time) bool {
			return v.Active && !v.Used
		},
	},
	{
		message: "voucher has expired",
		satisfied: func(v *Voucher, now time.Time) bool {
			return now.Before(v.ExpirationDate)
		},
	},
	{
		message: "voucher is no longer available",
		satisfied: func(v *Voucher, _ time.Time) bool {
			return v.Quantity > 0
		},
	},
}

// IsValidForUse reports whether every usage rule holds right now.
func (v *Voucher) IsValidForUse() bool {
	now := time.Now().UTC()
	for _, rule := range voucherRules {
		if !rule.satisfied(v, now) {
			return false
		}
	}
	return true
}

// Validate returns one detail per failing usage rule.
func (v *Voucher) Validate() []errors.ValidationDetail {
	now := time.Now().UTC()
	var details []errors.ValidationDetail
	for _, rule := range voucherRules {
		if !rule.satisfied(v, now) {
			details = append(details, errors.ValidationDetail{
				Field:   "voucher",
				Message: rule.message,
			})
		}
	}
	return details
}

// DebitQuantity consumes one use. Reaching zero moves the voucher to its
// terminal used state.
func (v *Voucher) DebitQuantity() {
	v.Quantity--
	if v.Quantity >= 1 {
		return
	}
	v.MarkAsUsed()
}

func (v *Voucher) MarkAsUsed() {
	now := time.Now().UTC()
	v.Active = false
	v.Used = true
	v.Quantity = 0
	v.UsedAt = &now
}
