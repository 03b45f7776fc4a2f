package order

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrProductNotFound      = errors.New("product not found")
	ErrEmptyOrder           = errors.New("order must contain at least one item")
	ErrInvalidQuantity      = errors.New("quantity must be greater than zero")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrOrderNotCancellable  = errors.New("order can no longer be cancelled")
	ErrDuplicateOrderNumber = errors.New("order number already exists")
)

// InsufficientStockError names the offending product so callers can
// report which line item failed.
type InsufficientStockError struct {
	ProductID   int
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q (id %d): requested %d, available %d",
		e.ProductName, e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
