package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/lib/pq"
)

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrAlreadyReviewed = errors.New("product already reviewed by this user")
)

const pgUniqueViolation = "23505"

type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Review, error)
	ListByProduct(ctx context.Context, productID int) ([]*Review, error)
	Delete(ctx context.Context, id, userID int) error
	GetRatingSummary(ctx context.Context, productID int) (*RatingSummary, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, params CreateParams) (*Review, error) {
	var rev Review
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO reviews (product_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, product_id, user_id, rating, comment, created_at, updated_at
	`, params.ProductID, params.UserID, params.Rating, params.Comment).
		Scan(&rev.ID, &rev.ProductID, &rev.UserID, &rev.Rating, &rev.Comment, &rev.CreatedAt, &rev.UpdatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return nil, ErrAlreadyReviewed
		}
		return nil, fmt.Errorf("create review: %w", err)
	}

	return &rev, nil
}

func (r *repository) ListByProduct(ctx context.Context, productID int) ([]*Review, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, user_id, rating, comment, created_at, updated_at
		FROM reviews
		WHERE product_id = $1
		ORDER BY created_at DESC
	`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*Review
	for rows.Next() {
		var rev Review
		if err := rows.Scan(&rev.ID, &rev.ProductID, &rev.UserID, &rev.Rating, &rev.Comment, &rev.CreatedAt, &rev.UpdatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, &rev)
	}

	return reviews, rows.Err()
}

func (r *repository) Delete(ctx context.Context, id, userID int) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM reviews WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrReviewNotFound
	}

	return nil
}

func (r *repository) GetRatingSummary(ctx context.Context, productID int) (*RatingSummary, error) {
	summary := &RatingSummary{ProductID: productID}

	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(AVG(rating), 0), COUNT(*)
		FROM reviews
		WHERE product_id = $1
	`, productID).Scan(&summary.AverageRating, &summary.ReviewCount)
	if err != nil {
		return nil, err
	}

	// Keep the persisted aggregate stable at 2 decimals.
	summary.AverageRating = math.Round(summary.AverageRating*100) / 100

	return summary, nil
}
