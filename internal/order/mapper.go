package order

import (
	"time"

	"shopline-be/internal/product"
)

type ItemResponse struct {
	ID            int     `json:"id"`
	ProductID     int     `json:"productId"`
	ProductName   string  `json:"productName"`
	Quantity      int     `json:"quantity"`
	Price         float64 `json:"price"`
	SelectedSize  *string `json:"selectedSize,omitempty"`
	SelectedColor *string `json:"selectedColor,omitempty"`
}

type Response struct {
	ID               int            `json:"id"`
	OrderNumber      string         `json:"orderNumber"`
	UserID           int            `json:"userId"`
	Subtotal         float64        `json:"subtotal"`
	ShippingCost     float64        `json:"shippingCost"`
	TaxAmount        float64        `json:"taxAmount"`
	TotalAmount      float64        `json:"totalAmount"`
	Status           Status         `json:"status"`
	PaymentStatus    PaymentStatus  `json:"paymentStatus"`
	PaymentReference *string        `json:"paymentReference,omitempty"`
	PaymentMethod    *string        `json:"paymentMethod,omitempty"`
	ShippingAddress  *string        `json:"shippingAddress,omitempty"`
	BillingAddress   *string        `json:"billingAddress,omitempty"`
	Notes            *string        `json:"notes,omitempty"`
	CreatedAt        string         `json:"createdAt"`
	UpdatedAt        string         `json:"updatedAt"`
	Items            []ItemResponse `json:"items,omitempty"`
}

type StatsResponse struct {
	TotalOrders       int            `json:"totalOrders"`
	TotalRevenue      float64        `json:"totalRevenue"`
	AverageOrderValue float64        `json:"averageOrderValue"`
	CountByStatus     map[Status]int `json:"countByStatus"`
}

func ToResponse(o *Order) Response {
	resp := Response{
		ID:               o.ID,
		OrderNumber:      o.OrderNumber,
		UserID:           o.UserID,
		Subtotal:         product.CentsToAmount(o.SubtotalCents),
		ShippingCost:     product.CentsToAmount(o.ShippingCents),
		TaxAmount:        product.CentsToAmount(o.TaxCents),
		TotalAmount:      product.CentsToAmount(o.TotalCents),
		Status:           o.Status,
		PaymentStatus:    o.PaymentStatus,
		PaymentReference: o.PaymentReference,
		PaymentMethod:    o.PaymentMethod,
		ShippingAddress:  o.ShippingAddress,
		BillingAddress:   o.BillingAddress,
		Notes:            o.Notes,
		CreatedAt:        o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        o.UpdatedAt.Format(time.RFC3339),
	}

	for _, item := range o.Items {
		resp.Items = append(resp.Items, ItemResponse{
			ID:            item.ID,
			ProductID:     item.ProductID,
			ProductName:   item.ProductName,
			Quantity:      item.Quantity,
			Price:         product.CentsToAmount(item.PriceCents),
			SelectedSize:  item.SelectedSize,
			SelectedColor: item.SelectedColor,
		})
	}

	return resp
}

func ToResponses(orders []*Order) []Response {
	out := make([]Response, 0, len(orders))
	for _, o := range orders {
		out = append(out, ToResponse(o))
	}
	return out
}

func ToStatsResponse(s *Stats) StatsResponse {
	return StatsResponse{
		TotalOrders:       s.TotalOrders,
		TotalRevenue:      product.CentsToAmount(s.TotalRevenueCents),
		AverageOrderValue: product.CentsToAmount(s.AverageOrderCents),
		CountByStatus:     s.CountByStatus,
	}
}
