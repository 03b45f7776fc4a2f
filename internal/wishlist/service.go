package wishlist

import (
	"context"
	"errors"

	"shopline-be/internal/product"
)

var ErrProductNotFound = errors.New("product not found")

type Service interface {
	Add(ctx context.Context, userID, productID int) (*Item, error)
	Remove(ctx context.Context, userID, productID int) error
	List(ctx context.Context, userID int) ([]*Item, error)
}

type service struct {
	repo        Repository
	productRepo product.Repository
}

func NewService(repo Repository, productRepo product.Repository) Service {
	return &service{repo: repo, productRepo: productRepo}
}

func (s *service) Add(ctx context.Context, userID, productID int) (*Item, error) {
	_, err := s.productRepo.GetByID(ctx, product.GetOptions{
		ProductID:  productID,
		OnlyActive: true,
	})
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	return s.repo.Add(ctx, userID, productID)
}

func (s *service) Remove(ctx context.Context, userID, productID int) error {
	return s.repo.Remove(ctx, userID, productID)
}

func (s *service) List(ctx context.Context, userID int) ([]*Item, error) {
	return s.repo.List(ctx, userID)
}
