package cart

import (
	"time"

	"shopline-be/internal/product"
)

type ItemResponse struct {
	ID            int               `json:"id"`
	ProductID     int               `json:"productId"`
	Quantity      int               `json:"quantity"`
	SelectedSize  *string           `json:"selectedSize,omitempty"`
	SelectedColor *string           `json:"selectedColor,omitempty"`
	CreatedAt     string            `json:"createdAt"`
	UpdatedAt     string            `json:"updatedAt"`
	Product       *product.Response `json:"product,omitempty"`
}

func ToItemResponse(item *CartItem) ItemResponse {
	resp := ItemResponse{
		ID:            item.ID,
		ProductID:     item.ProductID,
		Quantity:      item.Quantity,
		SelectedSize:  item.SelectedSize,
		SelectedColor: item.SelectedColor,
		CreatedAt:     item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     item.UpdatedAt.Format(time.RFC3339),
	}
	if item.Product != nil {
		p := product.ToResponse(item.Product)
		resp.Product = &p
	}
	return resp
}

func ToItemResponses(items []*CartItem) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, ToItemResponse(item))
	}
	return out
}
