package model

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON         = "INVALID_JSON"
	ErrCodeMissingField        = "MISSING_FIELD"
	ErrCodeInvalidDate         = "INVALID_DATE"
	ErrCodeEmptyCart           = "EMPTY_CART"
	ErrCodeInvalidTotal        = "INVALID_TOTAL"
	ErrCodeProductNotFound     = "PRODUCT_NOT_FOUND"
	ErrCodeProductUnavailable  = "PRODUCT_UNAVAILABLE"
	ErrCodeInvalidQuantity     = "INVALID_QUANTITY"
	ErrCodeInvalidStatus       = "INVALID_STATUS"
	ErrCodeInvalidPayment      = "INVALID_PAYMENT_METHOD"
	ErrCodeOrderNotFound       = "ORDER_NOT_FOUND"
	ErrCodeOrderCreationFailed = "ORDER_CREATION_FAILED"
	ErrCodeCheckoutInProgress  = "CHECKOUT_IN_PROGRESS"
	ErrCodeUnauthorised        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// DomainError is a typed business-logic failure that handlers map to an
// HTTP status and a non-leaking message.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrEmptyCart           = NewDomainError(ErrCodeEmptyCart, "Cart is empty")
	ErrInvalidTotal        = NewDomainError(ErrCodeInvalidTotal, "Order total must be greater than zero")
	ErrProductNotFound     = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrProductUnavailable  = NewDomainError(ErrCodeProductUnavailable, "One or more products are no longer available")
	ErrInvalidQuantity     = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInvalidStatus       = NewDomainError(ErrCodeInvalidStatus, "Status is not in the allowed set")
	ErrInvalidPayment      = NewDomainError(ErrCodeInvalidPayment, "Payment method is not supported")
	ErrOrderNotFound       = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrOrderCreationFailed = NewDomainError(ErrCodeOrderCreationFailed, "Failed to create order")
	ErrCheckoutInProgress  = NewDomainError(ErrCodeCheckoutInProgress, "Another checkout is already in progress")
)
