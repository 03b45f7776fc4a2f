package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"shopline-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	GetByID(ctx context.Context, opts GetOptions) (*Product, error)
	List(ctx context.Context, opts ListOptions) ([]*Product, int, error)
	Create(ctx context.Context, params CreateParams) (*Product, error)
	Update(ctx context.Context, params UpdateParams) (*Product, error)
	Deactivate(ctx context.Context, id int) error
	DecrementStock(ctx context.Context, id, qty int) (*Product, error)
	RestoreStock(ctx context.Context, id, qty int) (*Product, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `
	id, name, description, price_cents, stock, sales_count,
	category_id, active, image_url, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Stock, &p.SalesCount,
		&p.CategoryID, &p.Active, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetByID(ctx context.Context, opts GetOptions) (*Product, error) {
	query := `SELECT` + productColumns + ` FROM products WHERE id = $1`
	if opts.OnlyActive {
		query += ` AND active = TRUE`
	}

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, opts.ProductID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	return p, nil
}

func (r *repository) List(ctx context.Context, opts ListOptions) ([]*Product, int, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListProducts"),
	)

	start := time.Now()

	where := []string{"active = TRUE"}
	args := []any{}

	if opts.CategoryID != nil {
		where = append(where, fmt.Sprintf("category_id = $%d", len(args)+1))
		args = append(args, *opts.CategoryID)
	}

	if opts.Search != nil && *opts.Search != "" {
		where = append(where, fmt.Sprintf("name ILIKE $%d", len(args)+1))
		args = append(args, "%"+*opts.Search+"%")
	}

	if opts.InStock != nil {
		if *opts.InStock {
			where = append(where, "stock > 0")
		} else {
			where = append(where, "stock = 0")
		}
	}

	if opts.MinPrice != nil {
		where = append(where, fmt.Sprintf("price_cents >= $%d", len(args)+1))
		args = append(args, *opts.MinPrice)
	}

	if opts.MaxPrice != nil {
		where = append(where, fmt.Sprintf("price_cents <= $%d", len(args)+1))
		args = append(args, *opts.MaxPrice)
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM products WHERE ` + whereClause
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("count query failed", zap.Error(err))
		return nil, 0, err
	}

	orderBy := "created_at DESC"
	field := "created_at"
	switch opts.SortBy {
	case "price":
		field = "price_cents"
	case "name":
		field = "name"
	case "sales":
		field = "sales_count"
	}
	dir := "DESC"
	if strings.EqualFold(opts.SortOrder, "asc") {
		dir = "ASC"
	}
	orderBy = field + " " + dir

	offset := (opts.Page - 1) * opts.Limit

	query := `SELECT` + productColumns + ` FROM products WHERE ` + whereClause +
		` ORDER BY ` + orderBy +
		` LIMIT $` + fmt.Sprint(len(args)+1) +
		` OFFSET $` + fmt.Sprint(len(args)+2)
	args = append(args, opts.Limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("list query failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return nil, 0, err
	}
	defer rows.Close()

	products := make([]*Product, 0, opts.Limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, 0, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	log.Debug("list products success",
		zap.Int("rows", len(products)),
		zap.Int("total", total),
		zap.Duration("duration", time.Since(start)),
	)

	return products, total, nil
}

func (r *repository) Create(ctx context.Context, params CreateParams) (*Product, error) {
	query := `
		INSERT INTO products (name, description, price_cents, stock, category_id, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING` + productColumns

	p, err := scanProduct(r.db.QueryRowContext(ctx, query,
		params.Name, params.Description, params.PriceCents,
		params.Stock, params.CategoryID, params.ImageURL,
	))
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	return p, nil
}

func (r *repository) Update(ctx context.Context, params UpdateParams) (*Product, error) {
	query := `
		UPDATE products
		SET
			name = COALESCE($1, name),
			description = COALESCE($2, description),
			price_cents = COALESCE($3, price_cents),
			stock = COALESCE($4, stock),
			category_id = COALESCE($5, category_id),
			active = COALESCE($6, active),
			image_url = COALESCE($7, image_url),
			updated_at = NOW()
		WHERE id = $8
		RETURNING` + productColumns

	p, err := scanProduct(r.db.QueryRowContext(ctx, query,
		params.Name, params.Description, params.PriceCents, params.Stock,
		params.CategoryID, params.Active, params.ImageURL, params.ID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	return p, nil
}

func (r *repository) Deactivate(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products SET active = FALSE, updated_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// DecrementStock performs a conditional decrement so that concurrent
// checkouts can never drive stock negative.
func (r *repository) DecrementStock(ctx context.Context, id, qty int) (*Product, error) {
	query := `
		UPDATE products
		SET stock = stock - $1, sales_count = sales_count + $1, updated_at = NOW()
		WHERE id = $2 AND stock >= $1
		RETURNING` + productColumns

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, qty, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInsufficientStock
	}
	if err != nil {
		return nil, err
	}

	return p, nil
}

func (r *repository) RestoreStock(ctx context.Context, id, qty int) (*Product, error) {
	query := `
		UPDATE products
		SET stock = stock + $1, sales_count = GREATEST(sales_count - $1, 0), updated_at = NOW()
		WHERE id = $2
		RETURNING` + productColumns

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, qty, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	return p, nil
}
