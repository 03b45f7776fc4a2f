package product

import (
	"math"
	"time"
)

type Response struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	SalesCount  int     `json:"salesCount"`
	CategoryID  *int    `json:"categoryId,omitempty"`
	Active      bool    `json:"active"`
	InStock     bool    `json:"inStock"`
	ImageURL    *string `json:"imageUrl,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func ToResponse(p *Product) Response {
	return Response{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       CentsToAmount(p.PriceCents),
		Stock:       p.Stock,
		SalesCount:  p.SalesCount,
		CategoryID:  p.CategoryID,
		Active:      p.Active,
		InStock:     p.InStock(),
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
}

func ToResponses(products []*Product) []Response {
	out := make([]Response, 0, len(products))
	for _, p := range products {
		out = append(out, ToResponse(p))
	}
	return out
}

// CentsToAmount renders an integer cent amount as a currency value.
func CentsToAmount(cents int64) float64 {
	return float64(cents) / 100
}

// AmountToCents converts a 2-decimal currency value to integer cents.
func AmountToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
