package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"shopline-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

const pgUniqueViolation = "23505"

type Repository interface {
	CreateOrderTx(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id int) (*Order, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)
	List(ctx context.Context, userID *int, f Filter) ([]*Order, int, error)
	UpdateStatus(ctx context.Context, id int, status Status) error
	UpdatePaymentStatus(ctx context.Context, id int, status PaymentStatus, reference *string) error
	CancelTx(ctx context.Context, id int) error
	GetStats(ctx context.Context) (*Stats, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// CreateOrderTx persists the order header and line items, decrements
// product stock, and clears the buyer's cart in a single transaction.
// The stock decrement is conditional (stock >= qty) so two concurrent
// checkouts can never oversell: the loser sees zero affected rows and
// the whole transaction rolls back.
func (r *repository) CreateOrderTx(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrderTx"),
		zap.String("order_number", o.OrderNumber),
		zap.Int("user_id", o.UserID),
		zap.Int("item_count", len(o.Items)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			order_number, user_id,
			subtotal_cents, shipping_cents, tax_cents, total_cents,
			status, payment_status, payment_method,
			shipping_address, billing_address, notes
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id, created_at, updated_at
	`,
		o.OrderNumber, o.UserID,
		o.SubtotalCents, o.ShippingCents, o.TaxCents, o.TotalCents,
		o.Status, o.PaymentStatus, o.PaymentMethod,
		o.ShippingAddress, o.BillingAddress, o.Notes,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation &&
			pqErr.Constraint == "orders_order_number_key" {
			return ErrDuplicateOrderNumber
		}
		log.Error("failed to insert order", zap.Error(err))
		return err
	}

	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID

		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (
				order_id, product_id, quantity, price_cents,
				selected_size, selected_color
			) VALUES ($1,$2,$3,$4,$5,$6)
			RETURNING id
		`,
			o.ID, item.ProductID, item.Quantity, item.PriceCents,
			item.SelectedSize, item.SelectedColor,
		).Scan(&item.ID)
		if err != nil {
			log.Error("failed to insert order item",
				zap.Int("product_id", item.ProductID),
				zap.Error(err),
			)
			return err
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE products
			SET stock = stock - $1, sales_count = sales_count + $1, updated_at = NOW()
			WHERE id = $2 AND stock >= $1
		`, item.Quantity, item.ProductID)
		if err != nil {
			log.Error("failed to decrement stock",
				zap.Int("product_id", item.ProductID),
				zap.Error(err),
			)
			return err
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			log.Warn("stock decrement lost the race",
				zap.Int("product_id", item.ProductID),
				zap.Int("requested", item.Quantity),
			)
			return &InsufficientStockError{
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				Requested:   item.Quantity,
			}
		}
	}

	// Checkout always empties the whole cart, not just the ordered rows.
	if _, err := tx.ExecContext(ctx, `DELETE FROM carts WHERE user_id = $1`, o.UserID); err != nil {
		log.Error("failed to clear cart", zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit order transaction", zap.Error(err))
		return err
	}

	committed = true
	log.Info("order transaction committed", zap.Int("order_id", o.ID))

	return nil
}

const orderColumns = `
	id, order_number, user_id,
	subtotal_cents, shipping_cents, tax_cents, total_cents,
	status, payment_status, payment_reference, payment_method,
	shipping_address, billing_address, notes, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.UserID,
		&o.SubtotalCents, &o.ShippingCents, &o.TaxCents, &o.TotalCents,
		&o.Status, &o.PaymentStatus, &o.PaymentReference, &o.PaymentMethod,
		&o.ShippingAddress, &o.BillingAddress, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Order, error) {
	query := `SELECT` + orderColumns + ` FROM orders WHERE id = $1`

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}

	return o, nil
}

func (r *repository) GetByOrderNumber(ctx context.Context, orderNumber string) (*Order, error) {
	query := `SELECT` + orderColumns + ` FROM orders WHERE order_number = $1`

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, orderNumber))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}

	return o, nil
}

func (r *repository) loadItems(ctx context.Context, o *Order) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, p.name, oi.quantity,
		       oi.price_cents, oi.selected_size, oi.selected_color
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.id
	`, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.Quantity, &item.PriceCents, &item.SelectedSize, &item.SelectedColor,
		); err != nil {
			return err
		}
		o.Items = append(o.Items, item)
	}

	return rows.Err()
}

func (r *repository) List(ctx context.Context, userID *int, f Filter) ([]*Order, int, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListOrders"),
		zap.Int("page", f.Page),
		zap.Int("limit", f.Limit),
	)

	start := time.Now()

	where := []string{"1=1"}
	args := []any{}

	if userID != nil {
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)+1))
		args = append(args, *userID)
	}
	if f.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *f.Status)
	}
	if f.PaymentStatus != nil {
		where = append(where, fmt.Sprintf("payment_status = $%d", len(args)+1))
		args = append(args, *f.PaymentStatus)
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE `+whereClause, args...,
	).Scan(&total); err != nil {
		log.Error("count query failed", zap.Error(err))
		return nil, 0, err
	}

	field := "created_at"
	switch f.SortBy {
	case "total":
		field = "total_cents"
	case "status":
		field = "status"
	}
	dir := "DESC"
	if strings.EqualFold(f.SortOrder, "asc") {
		dir = "ASC"
	}

	offset := (f.Page - 1) * f.Limit

	query := `SELECT` + orderColumns + ` FROM orders WHERE ` + whereClause +
		` ORDER BY ` + field + ` ` + dir +
		` LIMIT $` + fmt.Sprint(len(args)+1) +
		` OFFSET $` + fmt.Sprint(len(args)+2)
	args = append(args, f.Limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("list query failed", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	orders := make([]*Order, 0, f.Limit)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	log.Debug("list orders success",
		zap.Int("rows", len(orders)),
		zap.Int("total", total),
		zap.Duration("duration", time.Since(start)),
	)

	return orders, total, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int, status Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2
	`, status, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

func (r *repository) UpdatePaymentStatus(ctx context.Context, id int, status PaymentStatus, reference *string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET payment_status = $1,
		    payment_reference = COALESCE($2, payment_reference),
		    updated_at = NOW()
		WHERE id = $3
	`, status, reference, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// CancelTx restores every line item's quantity onto product stock and
// flips the order to cancelled, atomically. The order row is locked
// for the duration so concurrent cancels or status updates serialize.
func (r *repository) CancelTx(ctx context.Context, id int) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CancelTx"),
		zap.Int("order_id", id),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	var status Status
	err = tx.QueryRowContext(ctx, `
		SELECT status FROM orders WHERE id = $1 FOR UPDATE
	`, id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}

	if !status.Cancellable() {
		return ErrOrderNotCancellable
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT product_id, quantity FROM order_items WHERE order_id = $1
	`, id)
	if err != nil {
		return err
	}

	type restore struct {
		productID int
		quantity  int
	}
	var restores []restore
	for rows.Next() {
		var rs restore
		if err := rows.Scan(&rs.productID, &rs.quantity); err != nil {
			rows.Close()
			return err
		}
		restores = append(restores, rs)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	for _, rs := range restores {
		_, err = tx.ExecContext(ctx, `
			UPDATE products
			SET stock = stock + $1, sales_count = GREATEST(sales_count - $1, 0), updated_at = NOW()
			WHERE id = $2
		`, rs.quantity, rs.productID)
		if err != nil {
			log.Error("failed to restore stock",
				zap.Int("product_id", rs.productID),
				zap.Error(err),
			)
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2
	`, StatusCancelled, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	committed = true
	log.Info("order cancelled", zap.Int("restored_items", len(restores)))

	return nil
}

func (r *repository) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{CountByStatus: make(map[Status]int)}

	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(total_cents), 0),
		       COALESCE(AVG(total_cents), 0)::BIGINT
		FROM orders
	`).Scan(&stats.TotalOrders, &stats.TotalRevenueCents, &stats.AverageOrderCents)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT status, COUNT(*) FROM orders GROUP BY status
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.CountByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
