package order

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
)

// ParseStatus validates a status string at the boundary.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusShipped,
		StatusDelivered, StatusCancelled, StatusRefunded:
		return Status(s), nil
	}
	return "", fmt.Errorf("invalid order status: %q", s)
}

// Cancellable reports whether an order in this status may still be
// cancelled. Delivered and already-cancelled orders are terminal.
func (s Status) Cancellable() bool {
	return s != StatusDelivered && s != StatusCancelled
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return PaymentStatus(s), nil
	}
	return "", fmt.Errorf("invalid payment status: %q", s)
}

type Order struct {
	ID               int
	OrderNumber      string
	UserID           int
	SubtotalCents    int64
	ShippingCents    int64
	TaxCents         int64
	TotalCents       int64
	Status           Status
	PaymentStatus    PaymentStatus
	PaymentReference *string
	PaymentMethod    *string
	ShippingAddress  *string
	BillingAddress   *string
	Notes            *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Items            []OrderItem
}

// OrderItem carries the unit price as a snapshot taken at order
// creation time; later product price changes never touch it.
type OrderItem struct {
	ID            int
	OrderID       int
	ProductID     int
	ProductName   string
	Quantity      int
	PriceCents    int64
	SelectedSize  *string
	SelectedColor *string
}

type CreateItemInput struct {
	ProductID     int
	Quantity      int
	SelectedSize  *string
	SelectedColor *string
}

type CreateParams struct {
	Items           []CreateItemInput
	ShippingAddress *string
	BillingAddress  *string
	PaymentMethod   *string
	Notes           *string
}

type Filter struct {
	Status        *Status
	PaymentStatus *PaymentStatus
	SortBy        string
	SortOrder     string
	Page          int
	Limit         int
}

type Stats struct {
	TotalOrders       int
	TotalRevenueCents int64
	AverageOrderCents int64
	CountByStatus     map[Status]int
}
