package category

import "context"

type Service interface {
	GetAll(ctx context.Context) ([]*Category, error)
	GetByID(ctx context.Context, id int) (*Category, error)
	Create(ctx context.Context, name string, description *string) (*Category, error)
	Update(ctx context.Context, id int, name *string, description *string) (*Category, error)
	Delete(ctx context.Context, id int) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetAll(ctx context.Context) ([]*Category, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) GetByID(ctx context.Context, id int) (*Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Create(ctx context.Context, name string, description *string) (*Category, error) {
	return s.repo.Create(ctx, name, description)
}

func (s *service) Update(ctx context.Context, id int, name *string, description *string) (*Category, error) {
	return s.repo.Update(ctx, id, name, description)
}

func (s *service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
