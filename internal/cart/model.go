package cart

import (
	"time"

	"shopline-be/internal/product"
)

type CartItem struct {
	ID            int
	UserID        int
	ProductID     int
	Quantity      int
	SelectedSize  *string
	SelectedColor *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Product *product.Product
}

type AddItemParams struct {
	UserID        int
	ProductID     int
	Quantity      int
	SelectedSize  *string
	SelectedColor *string
}

type UpdateQuantityParams struct {
	UserID    int
	ProductID int
	Quantity  int
}
