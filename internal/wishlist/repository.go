package wishlist

import (
	"context"
	"database/sql"
	"errors"

	"shopline-be/internal/product"

	"github.com/lib/pq"
)

var (
	ErrItemNotFound = errors.New("wishlist item not found")
	ErrItemExists   = errors.New("product already in wishlist")
)

const pgUniqueViolation = "23505"

type Repository interface {
	Add(ctx context.Context, userID, productID int) (*Item, error)
	Remove(ctx context.Context, userID, productID int) error
	List(ctx context.Context, userID int) ([]*Item, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Add(ctx context.Context, userID, productID int) (*Item, error) {
	var item Item
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO wishlists (user_id, product_id)
		VALUES ($1, $2)
		RETURNING id, user_id, product_id, created_at
	`, userID, productID).Scan(&item.ID, &item.UserID, &item.ProductID, &item.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return nil, ErrItemExists
		}
		return nil, err
	}

	return &item, nil
}

func (r *repository) Remove(ctx context.Context, userID, productID int) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM wishlists WHERE user_id = $1 AND product_id = $2
	`, userID, productID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrItemNotFound
	}

	return nil
}

func (r *repository) List(ctx context.Context, userID int) ([]*Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			w.id, w.user_id, w.product_id, w.created_at,
			p.id, p.name, p.price_cents, p.stock, p.active, p.image_url
		FROM wishlists w
		JOIN products p ON p.id = w.product_id
		WHERE w.user_id = $1
		ORDER BY w.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		var item Item
		var p product.Product
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.ProductID, &item.CreatedAt,
			&p.ID, &p.Name, &p.PriceCents, &p.Stock, &p.Active, &p.ImageURL,
		); err != nil {
			return nil, err
		}
		resp := product.ToResponse(&p)
		item.Product = &resp
		items = append(items, &item)
	}

	return items, rows.Err()
}
