package review

import (
	"context"
	"errors"

	"shopline-be/internal/logger"
	"shopline-be/internal/product"

	"go.uber.org/zap"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
)

type Service interface {
	Create(ctx context.Context, params CreateParams) (*Review, error)
	ListByProduct(ctx context.Context, productID int) ([]*Review, *RatingSummary, error)
	Delete(ctx context.Context, id, userID int) error
}

type service struct {
	repo        Repository
	productRepo product.Repository
}

func NewService(repo Repository, productRepo product.Repository) Service {
	return &service{repo: repo, productRepo: productRepo}
}

func (s *service) Create(ctx context.Context, params CreateParams) (*Review, error) {
	if params.Rating < 1 || params.Rating > 5 {
		return nil, ErrInvalidRating
	}

	_, err := s.productRepo.GetByID(ctx, product.GetOptions{
		ProductID:  params.ProductID,
		OnlyActive: true,
	})
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	rev, err := s.repo.Create(ctx, params)
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("review created",
		zap.Int("review_id", rev.ID),
		zap.Int("product_id", rev.ProductID),
		zap.Int("rating", rev.Rating),
	)

	return rev, nil
}

func (s *service) ListByProduct(ctx context.Context, productID int) ([]*Review, *RatingSummary, error) {
	reviews, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, nil, err
	}

	summary, err := s.repo.GetRatingSummary(ctx, productID)
	if err != nil {
		return nil, nil, err
	}

	return reviews, summary, nil
}

func (s *service) Delete(ctx context.Context, id, userID int) error {
	return s.repo.Delete(ctx, id, userID)
}
