package cart

import (
	"context"
	"database/sql"
	"errors"

	"shopline-be/internal/logger"
	"shopline-be/internal/product"

	"go.uber.org/zap"
)

type Repository interface {
	GetItems(ctx context.Context, userID int) ([]*CartItem, error)
	GetItemByUserAndProduct(ctx context.Context, userID, productID int) (*CartItem, error)
	CreateItem(ctx context.Context, params AddItemParams) (*CartItem, error)
	UpdateItemQuantity(ctx context.Context, itemID, quantity int) (*CartItem, error)
	RemoveItem(ctx context.Context, userID, productID int) error
	ClearAll(ctx context.Context, userID int) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetItems(ctx context.Context, userID int) ([]*CartItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetCartItems"),
		zap.Int("user_id", userID),
	)

	query := `
		SELECT
			c.id, c.user_id, c.product_id, c.quantity,
			c.selected_size, c.selected_color, c.created_at, c.updated_at,
			p.id, p.name, p.price_cents, p.stock, p.active, p.image_url
		FROM carts c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var items []*CartItem
	for rows.Next() {
		item := &CartItem{Product: &product.Product{}}
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.ProductID, &item.Quantity,
			&item.SelectedSize, &item.SelectedColor, &item.CreatedAt, &item.UpdatedAt,
			&item.Product.ID, &item.Product.Name, &item.Product.PriceCents,
			&item.Product.Stock, &item.Product.Active, &item.Product.ImageURL,
		); err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *repository) GetItemByUserAndProduct(ctx context.Context, userID, productID int) (*CartItem, error) {
	query := `
		SELECT id, user_id, product_id, quantity, selected_size, selected_color, created_at, updated_at
		FROM carts
		WHERE user_id = $1 AND product_id = $2
	`

	var item CartItem
	err := r.db.QueryRowContext(ctx, query, userID, productID).Scan(
		&item.ID, &item.UserID, &item.ProductID, &item.Quantity,
		&item.SelectedSize, &item.SelectedColor, &item.CreatedAt, &item.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *repository) CreateItem(ctx context.Context, params AddItemParams) (*CartItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateCartItem"),
		zap.Int("user_id", params.UserID),
		zap.Int("product_id", params.ProductID),
	)

	query := `
		INSERT INTO carts (user_id, product_id, quantity, selected_size, selected_color)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, product_id, quantity, selected_size, selected_color, created_at, updated_at
	`

	var item CartItem
	err := r.db.QueryRowContext(ctx, query,
		params.UserID, params.ProductID, params.Quantity,
		params.SelectedSize, params.SelectedColor,
	).Scan(
		&item.ID, &item.UserID, &item.ProductID, &item.Quantity,
		&item.SelectedSize, &item.SelectedColor, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create cart item", zap.Error(err))
		return nil, err
	}

	log.Info("cart item created", zap.Int("cart_item_id", item.ID))

	return &item, nil
}

func (r *repository) UpdateItemQuantity(ctx context.Context, itemID, quantity int) (*CartItem, error) {
	query := `
		UPDATE carts
		SET quantity = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, user_id, product_id, quantity, selected_size, selected_color, created_at, updated_at
	`

	var item CartItem
	err := r.db.QueryRowContext(ctx, query, quantity, itemID).Scan(
		&item.ID, &item.UserID, &item.ProductID, &item.Quantity,
		&item.SelectedSize, &item.SelectedColor, &item.CreatedAt, &item.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartItemNotFound
	}
	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *repository) RemoveItem(ctx context.Context, userID, productID int) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM carts WHERE user_id = $1 AND product_id = $2
	`, userID, productID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

// ClearAll removes every cart row for the user. Clearing an already
// empty cart is not an error.
func (r *repository) ClearAll(ctx context.Context, userID int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM carts WHERE user_id = $1`, userID)
	return err
}
