package product

import (
	"context"
	"strconv"
	"time"

	"shopline-be/internal/logger"
	"shopline-be/internal/metrics"

	"go.uber.org/zap"
)

type Service interface {
	GetByID(ctx context.Context, id int) (*Product, error)
	List(ctx context.Context, opts ListOptions) ([]*Product, int, error)
	Create(ctx context.Context, params CreateParams) (*Product, error)
	Update(ctx context.Context, params UpdateParams) (*Product, error)
	Deactivate(ctx context.Context, id int) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetByID(ctx context.Context, id int) (*Product, error) {
	return s.repo.GetByID(ctx, GetOptions{ProductID: id, OnlyActive: true})
}

func (s *service) List(ctx context.Context, opts ListOptions) ([]*Product, int, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ListProducts"),
	)

	start := time.Now()

	if opts.Page <= 0 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	} else if opts.Limit > 100 {
		opts.Limit = 100
	}

	products, total, err := s.repo.List(ctx, opts)
	if err != nil {
		log.Error("failed to fetch product list",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return nil, 0, err
	}

	log.Info("get product list success",
		zap.Int("count", len(products)),
		zap.Int("total", total),
		zap.Int("page", opts.Page),
		zap.Int("limit", opts.Limit),
		zap.Duration("duration", time.Since(start)),
	)

	return products, total, nil
}

func (s *service) Create(ctx context.Context, params CreateParams) (*Product, error) {
	if params.PriceCents < 0 {
		return nil, ErrInvalidPrice
	}
	if params.Stock < 0 {
		return nil, ErrInvalidStock
	}

	p, err := s.repo.Create(ctx, params)
	if err != nil {
		return nil, err
	}

	metrics.StockLevel.WithLabelValues(strconv.Itoa(p.ID)).Set(float64(p.Stock))

	logger.FromCtx(ctx).Info("product created",
		zap.Int("product_id", p.ID),
		zap.String("name", p.Name),
	)

	return p, nil
}

func (s *service) Update(ctx context.Context, params UpdateParams) (*Product, error) {
	if params.PriceCents != nil && *params.PriceCents < 0 {
		return nil, ErrInvalidPrice
	}
	if params.Stock != nil && *params.Stock < 0 {
		return nil, ErrInvalidStock
	}

	p, err := s.repo.Update(ctx, params)
	if err != nil {
		return nil, err
	}

	metrics.StockLevel.WithLabelValues(strconv.Itoa(p.ID)).Set(float64(p.Stock))

	return p, nil
}

func (s *service) Deactivate(ctx context.Context, id int) error {
	return s.repo.Deactivate(ctx, id)
}
