package errors

import (
	"errors"
	"fmt"
)

var (
	ErrCartNotFound       = errors.New("cart not found")
	ErrCartItemNotFound   = errors.New("cart item not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product is not available")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
)

// InsufficientStockError is returned when a requested or merged quantity
// exceeds the product's current stock. It carries the available and requested
// counts so callers can report them.
type InsufficientStockError struct {
	ProductName string
	Available   int32
	Requested   int32
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf(
		"not enough stock for product '%s'. available: %d, requested: %d",
		e.ProductName,
		e.Available,
		e.Requested,
	)
}

// IsBusinessError reports whether err belongs to the cart error taxonomy and
// should surface to the caller as a 4xx rather than an internal failure.
func IsBusinessError(err error) bool {
	var stockErr *InsufficientStockError
	return errors.Is(err, ErrCartNotFound) ||
		errors.Is(err, ErrCartItemNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrProductUnavailable) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.As(err, &stockErr)
}
