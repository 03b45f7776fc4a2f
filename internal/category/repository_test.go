package category

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func categoryRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "description", "created_at", "updated_at"})
}

func TestRepository_GetAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery(`FROM categories`).
		WillReturnRows(categoryRows().
			AddRow(1, "Shoes", nil, time.Now(), time.Now()).
			AddRow(2, "Shirts", nil, time.Now(), time.Now()))

	categories, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, categories, 2)
	assert.Equal(t, "Shoes", categories[0].Name)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery(`FROM categories`).
		WithArgs(404).
		WillReturnRows(categoryRows())

	_, err = repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestRepository_Create_Duplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery(`INSERT INTO categories`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "categories_name_key"})

	_, err = repo.Create(context.Background(), "Shoes", nil)
	assert.ErrorIs(t, err, ErrCategoryExists)
}

func TestRepository_Delete_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectExec(`DELETE FROM categories WHERE id = \$1`).
		WithArgs(404).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Delete(context.Background(), 404)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
