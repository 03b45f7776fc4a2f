package product

import "time"

type Product struct {
	ID          int
	Name        string
	Description *string
	PriceCents  int64
	Stock       int
	SalesCount  int
	CategoryID  *int
	Active      bool
	ImageURL    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// InStock reports whether the product can currently be ordered.
func (p Product) InStock() bool {
	return p.Active && p.Stock > 0
}

type GetOptions struct {
	ProductID  int
	OnlyActive bool
}

type ListOptions struct {
	CategoryID *int
	Search     *string
	InStock    *bool
	MinPrice   *int64
	MaxPrice   *int64
	SortBy     string
	SortOrder  string
	Page       int
	Limit      int
}

type CreateParams struct {
	Name        string
	Description *string
	PriceCents  int64
	Stock       int
	CategoryID  *int
	ImageURL    *string
}

type UpdateParams struct {
	ID          int
	Name        *string
	Description *string
	PriceCents  *int64
	Stock       *int
	CategoryID  *int
	Active      *bool
	ImageURL    *string
}
