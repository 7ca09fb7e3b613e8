package cart

import "errors"

// ValidationError reports caller input that failed a model constraint.
// The message text is part of the API contract and is returned verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Shared validation failures. Matching is by identity, so callers can use
// errors.Is against these and errors.As against *ValidationError.
var (
	ErrSKURequired       = &ValidationError{Message: "SKU is required"}
	ErrNameRequired      = &ValidationError{Message: "Name is required"}
	ErrUnitPriceInvalid  = &ValidationError{Message: "unitPrice must be > 0"}
	ErrQtyInvalid        = &ValidationError{Message: "qty must be positive integer"}
	ErrNewQtyInvalid     = &ValidationError{Message: "newQty must be positive integer"}
	ErrNotCartItem       = &ValidationError{Message: "item must be CartItem"}
	ErrPromoCodeRequired = &ValidationError{Message: "Promo code must be non-empty string"}
)

var (
	// ErrItemNotFound is returned when no line item carries the given SKU.
	ErrItemNotFound = errors.New("Item not found")
	// ErrInvalidPromoCode is returned when a promo code is not configured.
	ErrInvalidPromoCode = errors.New("Invalid promo code")
	// ErrPromoOutOfRange is returned when a configured percent falls
	// outside 0..100. The table is not validated at construction, so this
	// only surfaces when the code is used.
	ErrPromoOutOfRange = errors.New("Configured promo is out of range 0..100")
)

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
