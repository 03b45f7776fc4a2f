package payment

import (
	"context"
	"net/http"
	"time"
)

// Gateway is the external payment provider boundary. Amounts cross it
// in integer cents, matching the rest of the order pipeline.
type Gateway interface {
	CreateInvoice(ctx context.Context, req InvoiceRequest) (*Invoice, error)
	GetStatus(ctx context.Context, externalID string) (*StatusResult, error)
	VerifyCallback(r *http.Request) error
}

type InvoiceRequest struct {
	ExternalID  string
	AmountCents int64
	PayerEmail  string
	Description string
}

type Invoice struct {
	ProviderID     string
	ExternalID     string
	Status         string
	InvoiceURL     string
	ExpirationTime time.Time
}

type StatusResult struct {
	Status string
	PaidAt *time.Time
}
