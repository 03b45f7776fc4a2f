package review

import "time"

type Review struct {
	ID        int       `json:"id"`
	ProductID int       `json:"productId"`
	UserID    int       `json:"userId"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RatingSummary is the aggregate over all reviews of a product.
type RatingSummary struct {
	ProductID     int
	AverageRating float64
	ReviewCount   int
}

type CreateParams struct {
	ProductID int
	UserID    int
	Rating    int
	Comment   *string
}
