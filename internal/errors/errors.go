package errors

import "fmt"

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	if ve, ok := err.(*ValidationError); ok {
		return ve, true
	}
	return nil, false
}

// ValidationResult accumulates business-rule failures during command handling.
// Handlers return it instead of an error so every failing rule reaches the
// caller in one pass.
type ValidationResult struct {
	Errors []ValidationDetail
}

func NewValidationResult() *ValidationResult {
	return &ValidationResult{}
}

func (v *ValidationResult) AddError(field, message string) {
	v.Errors = append(v.Errors, ValidationDetail{Field: field, Message: message})
}

func (v *ValidationResult) Append(details ...ValidationDetail) {
	v.Errors = append(v.Errors, details...)
}

func (v *ValidationResult) IsValid() bool {
	return len(v.Errors) == 0
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	if nf, ok := err.(*NotFoundError); ok {
		return nf, true
	}
	return nil, false
}

// DomainError marks an unrecoverable failure inside a message handler: a
// local commit failed after an external side effect already happened. It
// carries the affected order id so bus redelivery logs stay traceable.
type DomainError struct {
	OrderID string
	Message string
}

func (e *DomainError) Error() string {
	if e.OrderID != "" {
		return fmt.Sprintf("%s (order %s)", e.Message, e.OrderID)
	}
	return e.Message
}

func NewDomainError(orderID, message string) *DomainError {
	return &DomainError{OrderID: orderID, Message: message}
}

func IsDomainError(err error) (*DomainError, bool) {
	if de, ok := err.(*DomainError); ok {
		return de, true
	}
	return nil, false
}

type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{
		Message: message,
		Cause:   cause,
	}
}

func IsInternalError(err error) (*InternalError, bool) {
	ie, ok := err.(*InternalError)
	return ie, ok
}
