package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"shopline-be/internal/config"
	"shopline-be/internal/logger"
	"shopline-be/internal/metrics"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const requestTimeout = 15 * time.Second

type restGateway struct {
	client        *resty.Client
	breaker       *gobreaker.CircuitBreaker
	callbackToken string
}

func NewGateway(cfg *config.Config) Gateway {
	if cfg.PaymentAPIKey == "" {
		logger.L().Warn("payment gateway API key is empty")
	}

	client := resty.New().
		SetBaseURL(cfg.PaymentBaseURL).
		SetTimeout(requestTimeout).
		SetBasicAuth(cfg.PaymentAPIKey, "").
		SetHeader("Content-Type", "application/json")

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "payment-gateway",
		MaxRequests: 3,
		Interval:    15 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.L().Info("circuit breaker state changed",
				zap.String("circuit", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &restGateway{
		client:        client,
		breaker:       breaker,
		callbackToken: cfg.PaymentCallbackToken,
	}
}

type invoicePayload struct {
	ExternalID  string  `json:"external_id"`
	Amount      float64 `json:"amount"`
	PayerEmail  string  `json:"payer_email,omitempty"`
	Description string  `json:"description,omitempty"`
}

type invoiceResponse struct {
	ID         string     `json:"id"`
	ExternalID string     `json:"external_id"`
	Status     string     `json:"status"`
	InvoiceURL string     `json:"invoice_url"`
	ExpiryDate *time.Time `json:"expiry_date"`
}

func (g *restGateway) CreateInvoice(ctx context.Context, req InvoiceRequest) (*Invoice, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "gateway"),
		zap.String("method", "CreateInvoice"),
		zap.String("external_id", req.ExternalID),
		zap.Int64("amount_cents", req.AmountCents),
	)

	payload := invoicePayload{
		ExternalID:  req.ExternalID,
		Amount:      float64(req.AmountCents) / 100,
		PayerEmail:  req.PayerEmail,
		Description: req.Description,
	}

	result, err := g.breaker.Execute(func() (interface{}, error) {
		var out invoiceResponse
		resp, err := g.client.R().
			SetContext(ctx).
			SetBody(payload).
			SetResult(&out).
			Post("/v2/invoices")
		if err != nil {
			return nil, err
		}
		if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
			return nil, fmt.Errorf("gateway error: status %d: %s", resp.StatusCode(), resp.String())
		}
		return &out, nil
	})
	if err != nil {
		metrics.PaymentGatewayFailures.Inc()
		log.Error("create invoice failed", zap.Error(err))
		return nil, breakerError(err)
	}

	out := result.(*invoiceResponse)

	log.Info("invoice created",
		zap.String("provider_id", out.ID),
		zap.String("status", out.Status),
	)

	inv := &Invoice{
		ProviderID: out.ID,
		ExternalID: out.ExternalID,
		Status:     out.Status,
		InvoiceURL: out.InvoiceURL,
	}
	if out.ExpiryDate != nil {
		inv.ExpirationTime = *out.ExpiryDate
	} else {
		inv.ExpirationTime = time.Now().Add(24 * time.Hour)
	}

	return inv, nil
}

func (g *restGateway) GetStatus(ctx context.Context, externalID string) (*StatusResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "gateway"),
		zap.String("method", "GetStatus"),
		zap.String("external_id", externalID),
	)

	result, err := g.breaker.Execute(func() (interface{}, error) {
		var out []struct {
			Status string     `json:"status"`
			PaidAt *time.Time `json:"paid_at"`
		}
		resp, err := g.client.R().
			SetContext(ctx).
			SetQueryParam("external_id", externalID).
			SetResult(&out).
			Get("/v2/invoices")
		if err != nil {
			return nil, err
		}
		if resp.StatusCode() != http.StatusOK {
			return nil, fmt.Errorf("gateway error: status %d: %s", resp.StatusCode(), resp.String())
		}
		if len(out) == 0 {
			return nil, errors.New("invoice not found")
		}
		return &StatusResult{Status: out[0].Status, PaidAt: out[0].PaidAt}, nil
	})
	if err != nil {
		metrics.PaymentGatewayFailures.Inc()
		log.Error("get status failed", zap.Error(err))
		return nil, breakerError(err)
	}

	return result.(*StatusResult), nil
}

func (g *restGateway) VerifyCallback(r *http.Request) error {
	if g.callbackToken == "" {
		return nil // skip in dev
	}

	if r.Header.Get("x-callback-token") != g.callbackToken {
		return errors.New("invalid callback token")
	}
	return nil
}

func breakerError(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("payment gateway unavailable: %w", err)
	}
	return err
}
