package product

import "errors"

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidPrice      = errors.New("price must not be negative")
	ErrInvalidStock      = errors.New("stock must not be negative")
)
