package wishlist

import (
	"time"

	"shopline-be/internal/product"
)

type Item struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	ProductID int       `json:"productId"`
	CreatedAt time.Time `json:"createdAt"`

	Product *product.Response `json:"product,omitempty"`
}
