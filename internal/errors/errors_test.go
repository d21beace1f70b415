package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_Creation(t *testing.T) {
	message := "validation failed"
	details := []ValidationDetail{
		{Field: "cardNumber", Message: "invalid card number"},
		{Field: "items", Message: "order needs at least one item"},
	}

	err := NewValidationError(message, details...)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
	assert.Len(t, err.Details, 2)
}

func TestValidationError_IsValidationError(t *testing.T) {
	err := NewValidationError("bad request")

	ve, ok := IsValidationError(err)
	assert.True(t, ok)
	assert.NotNil(t, ve)

	_, ok = IsValidationError(errors.New("plain error"))
	assert.False(t, ok)
}

func TestValidationResult_Accumulates(t *testing.T) {
	result := NewValidationResult()
	assert.True(t, result.IsValid())

	result.AddError("voucherCode", "voucher does not exist")
	result.AddError("totalValue", "order total does not match the calculated value")

	assert.False(t, result.IsValid())
	assert.Len(t, result.Errors, 2)
	assert.Equal(t, "voucherCode", result.Errors[0].Field)
}

func TestValidationResult_Append(t *testing.T) {
	result := NewValidationResult()
	result.Append(
		ValidationDetail{Field: "voucher", Message: "voucher is no longer active"},
		ValidationDetail{Field: "voucher", Message: "voucher has expired"},
	)

	assert.False(t, result.IsValid())
	assert.Len(t, result.Errors, 2)
}

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("order not found")

	nf, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.Equal(t, "order not found", nf.Message)

	_, ok = IsNotFoundError(errors.New("other"))
	assert.False(t, ok)
}

func TestDomainError_CarriesOrderID(t *testing.T) {
	err := NewDomainError("6f1d9c2a", "failed to update stock")

	de, ok := IsDomainError(err)
	assert.True(t, ok)
	assert.Equal(t, "6f1d9c2a", de.OrderID)
	assert.Contains(t, err.Error(), "6f1d9c2a")
	assert.Contains(t, err.Error(), "failed to update stock")
}

func TestDomainError_WithoutOrderID(t *testing.T) {
	err := NewDomainError("", "unexpected handler failure")
	assert.Equal(t, "unexpected handler failure", err.Error())
}

func TestInternalError_WrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewInternalError("committing transaction", cause)

	assert.Contains(t, err.Error(), "committing transaction")
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, cause, errors.Unwrap(err))
}
