package wishlist

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRepository(db)

		mock.ExpectQuery(`INSERT INTO wishlists`).
			WithArgs(7, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "product_id", "created_at"}).
				AddRow(10, 7, 1, time.Now()))

		item, err := repo.Add(ctx, 7, 1)
		require.NoError(t, err)
		assert.Equal(t, 10, item.ID)
	})

	t.Run("Duplicate", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRepository(db)

		mock.ExpectQuery(`INSERT INTO wishlists`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "wishlists_user_id_product_id_key"})

		_, err = repo.Add(ctx, 7, 1)
		assert.ErrorIs(t, err, ErrItemExists)
	})
}

func TestRepository_Remove_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectExec(`DELETE FROM wishlists WHERE user_id = \$1 AND product_id = \$2`).
		WithArgs(7, 99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Remove(context.Background(), 7, 99)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery(`JOIN products p ON p.id = w.product_id`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "product_id", "created_at",
			"p_id", "p_name", "p_price_cents", "p_stock", "p_active", "p_image_url",
		}).AddRow(
			10, 7, 1, time.Now(),
			1, "Widget", 25_00, 5, true, nil,
		))

	items, err := repo.List(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Product)
	assert.Equal(t, "Widget", items[0].Product.Name)
	assert.Equal(t, 25.0, items[0].Product.Price)
}
