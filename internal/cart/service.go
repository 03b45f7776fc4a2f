package cart

import (
	"context"

	"shopline-be/internal/logger"
	"shopline-be/internal/product"

	"go.uber.org/zap"
)

type Service interface {
	AddItem(ctx context.Context, params AddItemParams) (*CartItem, error)
	GetCart(ctx context.Context, userID int) ([]*CartItem, error)
	UpdateQuantity(ctx context.Context, params UpdateQuantityParams) (*CartItem, error)
	RemoveItem(ctx context.Context, userID, productID int) error
	ClearAll(ctx context.Context, userID int) error
}

type service struct {
	repo        Repository
	productRepo product.Repository
}

func NewService(repo Repository, productRepo product.Repository) Service {
	return &service{repo: repo, productRepo: productRepo}
}

func (s *service) AddItem(ctx context.Context, params AddItemParams) (*CartItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddToCart"),
		zap.Int("user_id", params.UserID),
		zap.Int("product_id", params.ProductID),
		zap.Int("quantity", params.Quantity),
	)

	if params.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	p, err := s.productRepo.GetByID(ctx, product.GetOptions{
		ProductID:  params.ProductID,
		OnlyActive: true,
	})
	if err != nil {
		if err == product.ErrProductNotFound {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	existing, err := s.repo.GetItemByUserAndProduct(ctx, params.UserID, params.ProductID)
	if err != nil {
		return nil, err
	}

	finalQty := params.Quantity
	if existing != nil {
		finalQty += existing.Quantity
	}

	if p.Stock < finalQty {
		log.Warn("insufficient stock for cart add",
			zap.Int("stock", p.Stock),
			zap.Int("requested", finalQty),
		)
		return nil, ErrInsufficientStock
	}

	if existing == nil {
		return s.repo.CreateItem(ctx, params)
	}
	return s.repo.UpdateItemQuantity(ctx, existing.ID, finalQty)
}

func (s *service) GetCart(ctx context.Context, userID int) ([]*CartItem, error) {
	return s.repo.GetItems(ctx, userID)
}

func (s *service) UpdateQuantity(ctx context.Context, params UpdateQuantityParams) (*CartItem, error) {
	if params.Quantity <= 0 {
		// Zero or negative quantity removes the item.
		if err := s.repo.RemoveItem(ctx, params.UserID, params.ProductID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	existing, err := s.repo.GetItemByUserAndProduct(ctx, params.UserID, params.ProductID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrCartItemNotFound
	}

	p, err := s.productRepo.GetByID(ctx, product.GetOptions{
		ProductID:  params.ProductID,
		OnlyActive: true,
	})
	if err != nil {
		return nil, ErrProductNotFound
	}
	if p.Stock < params.Quantity {
		return nil, ErrInsufficientStock
	}

	return s.repo.UpdateItemQuantity(ctx, existing.ID, params.Quantity)
}

func (s *service) RemoveItem(ctx context.Context, userID, productID int) error {
	return s.repo.RemoveItem(ctx, userID, productID)
}

func (s *service) ClearAll(ctx context.Context, userID int) error {
	return s.repo.ClearAll(ctx, userID)
}
