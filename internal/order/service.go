package order

import (
	"context"
	"errors"
	"time"

	"shopline-be/internal/logger"
	"shopline-be/internal/metrics"
	"shopline-be/internal/product"

	"go.uber.org/zap"
)

// createAttempts bounds the order-number collision retry loop.
const createAttempts = 3

type Service interface {
	Create(ctx context.Context, userID int, params CreateParams) (*Order, error)
	List(ctx context.Context, f Filter) ([]*Order, int, error)
	ListForUser(ctx context.Context, userID int, f Filter) ([]*Order, int, error)
	GetByID(ctx context.Context, id int) (*Order, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)
	UpdateStatus(ctx context.Context, id int, status Status) (*Order, error)
	UpdatePaymentStatus(ctx context.Context, id int, status PaymentStatus, reference *string) (*Order, error)
	Cancel(ctx context.Context, id int) (*Order, error)
	GetStats(ctx context.Context) (*Stats, error)
}

type service struct {
	repo        Repository
	productRepo product.Repository
}

// NewService wires the workflow with its collaborators explicitly; the
// product repository is the Product Lookup dependency, never resolved
// ambiently.
func NewService(repo Repository, productRepo product.Repository) Service {
	return &service{repo: repo, productRepo: productRepo}
}

// Create runs the checkout workflow: validate every line item up
// front, snapshot prices server-side, compute totals, then persist
// order, items, stock decrements, and the cart clear in one
// transaction. No write happens unless the whole request is valid.
func (s *service) Create(ctx context.Context, userID int, params CreateParams) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateOrder"),
		zap.Int("user_id", userID),
		zap.Int("item_count", len(params.Items)),
	)

	log.Info("create order started")

	if len(params.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	// Validation pass over ALL items before any persistence. Prices are
	// re-read here rather than taken from the caller, so a tampered
	// client cannot influence the snapshot.
	items := make([]OrderItem, 0, len(params.Items))
	lines := make([]LineAmount, 0, len(params.Items))

	for i, in := range params.Items {
		logItem := log.With(
			zap.Int("index", i),
			zap.Int("product_id", in.ProductID),
			zap.Int("quantity", in.Quantity),
		)

		if in.Quantity <= 0 {
			logItem.Warn("invalid quantity")
			return nil, ErrInvalidQuantity
		}

		p, err := s.productRepo.GetByID(ctx, product.GetOptions{
			ProductID:  in.ProductID,
			OnlyActive: true,
		})
		if err != nil {
			if errors.Is(err, product.ErrProductNotFound) {
				logItem.Warn("product not found or inactive")
				return nil, ErrProductNotFound
			}
			logItem.Error("failed to fetch product", zap.Error(err))
			return nil, err
		}

		if !p.InStock() || p.Stock < in.Quantity {
			logItem.Warn("insufficient stock",
				zap.Int("available", p.Stock),
			)
			return nil, &InsufficientStockError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Available:   p.Stock,
				Requested:   in.Quantity,
			}
		}

		items = append(items, OrderItem{
			ProductID:     p.ID,
			ProductName:   p.Name,
			Quantity:      in.Quantity,
			PriceCents:    p.PriceCents,
			SelectedSize:  in.SelectedSize,
			SelectedColor: in.SelectedColor,
		})
		lines = append(lines, LineAmount{PriceCents: p.PriceCents, Quantity: in.Quantity})
	}

	totals := ComputeTotals(lines)

	log.Info("totals computed",
		zap.Int64("subtotal_cents", totals.SubtotalCents),
		zap.Int64("shipping_cents", totals.ShippingCents),
		zap.Int64("tax_cents", totals.TaxCents),
		zap.Int64("total_cents", totals.TotalCents),
	)

	o := &Order{
		UserID:          userID,
		SubtotalCents:   totals.SubtotalCents,
		ShippingCents:   totals.ShippingCents,
		TaxCents:        totals.TaxCents,
		TotalCents:      totals.TotalCents,
		Status:          StatusPending,
		PaymentStatus:   PaymentPending,
		PaymentMethod:   params.PaymentMethod,
		ShippingAddress: params.ShippingAddress,
		BillingAddress:  params.BillingAddress,
		Notes:           params.Notes,
		Items:           items,
	}

	var err error
	for attempt := 0; attempt < createAttempts; attempt++ {
		o.OrderNumber = GenerateOrderNumber()

		err = s.repo.CreateOrderTx(ctx, o)
		if !errors.Is(err, ErrDuplicateOrderNumber) {
			break
		}
		log.Warn("order number collision, retrying",
			zap.String("order_number", o.OrderNumber),
			zap.Int("attempt", attempt+1),
		)
	}
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			metrics.OrdersTotal.WithLabelValues("rejected_stock").Inc()
		}
		log.Error("failed to create order", zap.Error(err))
		return nil, err
	}

	metrics.OrdersTotal.WithLabelValues("created").Inc()
	metrics.OrderAmount.Observe(float64(o.TotalCents) / 100)

	log.Info("order created",
		zap.Int("order_id", o.ID),
		zap.String("order_number", o.OrderNumber),
	)

	// Re-read so the response carries hydrated items and timestamps.
	return s.repo.GetByID(ctx, o.ID)
}

func (s *service) List(ctx context.Context, f Filter) ([]*Order, int, error) {
	normalizeFilter(&f)
	return s.repo.List(ctx, nil, f)
}

func (s *service) ListForUser(ctx context.Context, userID int, f Filter) ([]*Order, int, error) {
	normalizeFilter(&f)
	return s.repo.List(ctx, &userID, f)
}

func normalizeFilter(f *Filter) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 20
	} else if f.Limit > 100 {
		f.Limit = 100
	}
}

func (s *service) GetByID(ctx context.Context, id int) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByOrderNumber(ctx context.Context, orderNumber string) (*Order, error) {
	return s.repo.GetByOrderNumber(ctx, orderNumber)
}

func (s *service) UpdateStatus(ctx context.Context, id int, status Status) (*Order, error) {
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("order status updated",
		zap.Int("order_id", id),
		zap.String("status", string(status)),
	)

	return s.repo.GetByID(ctx, id)
}

func (s *service) UpdatePaymentStatus(ctx context.Context, id int, status PaymentStatus, reference *string) (*Order, error) {
	if err := s.repo.UpdatePaymentStatus(ctx, id, status, reference); err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("payment status updated",
		zap.Int("order_id", id),
		zap.String("payment_status", string(status)),
	)

	return s.repo.GetByID(ctx, id)
}

func (s *service) Cancel(ctx context.Context, id int) (*Order, error) {
	start := time.Now()

	if err := s.repo.CancelTx(ctx, id); err != nil {
		return nil, err
	}

	metrics.OrdersTotal.WithLabelValues("cancelled").Inc()

	logger.FromCtx(ctx).Info("order cancelled",
		zap.Int("order_id", id),
		zap.Duration("duration", time.Since(start)),
	)

	return s.repo.GetByID(ctx, id)
}

func (s *service) GetStats(ctx context.Context) (*Stats, error) {
	return s.repo.GetStats(ctx)
}
