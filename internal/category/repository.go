package category

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
)

const pgUniqueViolation = "23505"

type Repository interface {
	GetAll(ctx context.Context) ([]*Category, error)
	GetByID(ctx context.Context, id int) (*Category, error)
	Create(ctx context.Context, name string, description *string) (*Category, error)
	Update(ctx context.Context, id int, name *string, description *string) (*Category, error)
	Delete(ctx context.Context, id int) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetAll(ctx context.Context) ([]*Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, created_at, updated_at
		FROM categories
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*Category
	for rows.Next() {
		var cat Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Description, &cat.CreatedAt, &cat.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, &cat)
	}

	return categories, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id int) (*Category, error) {
	var cat Category
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, created_at, updated_at
		FROM categories
		WHERE id = $1
	`, id).Scan(&cat.ID, &cat.Name, &cat.Description, &cat.CreatedAt, &cat.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}

	return &cat, nil
}

func (r *repository) Create(ctx context.Context, name string, description *string) (*Category, error) {
	var cat Category
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, description)
		VALUES ($1, $2)
		RETURNING id, name, description, created_at, updated_at
	`, name, description).Scan(&cat.ID, &cat.Name, &cat.Description, &cat.CreatedAt, &cat.UpdatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return nil, ErrCategoryExists
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	return &cat, nil
}

func (r *repository) Update(ctx context.Context, id int, name *string, description *string) (*Category, error) {
	var cat Category
	err := r.db.QueryRowContext(ctx, `
		UPDATE categories
		SET name = COALESCE($1, name),
		    description = COALESCE($2, description),
		    updated_at = NOW()
		WHERE id = $3
		RETURNING id, name, description, created_at, updated_at
	`, name, description, id).Scan(&cat.ID, &cat.Name, &cat.Description, &cat.CreatedAt, &cat.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}

	return &cat, nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCategoryNotFound
	}

	return nil
}
