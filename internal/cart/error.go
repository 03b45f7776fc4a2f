package cart

import "errors"

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
)
