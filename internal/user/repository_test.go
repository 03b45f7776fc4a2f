package user

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "email", "password", "full_name", "role", "created_at", "updated_at",
	})
}

func TestRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRepository(db)

		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs("buyer@example.com", "hashed", "CUSTOMER").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "email", "password", "role", "created_at", "updated_at",
			}).AddRow(1, "buyer@example.com", "hashed", "CUSTOMER", time.Now(), time.Now()))

		u, err := repo.Create(ctx, "buyer@example.com", "hashed", "CUSTOMER")
		require.NoError(t, err)
		assert.Equal(t, 1, u.ID)
		assert.Equal(t, RoleCustomer, u.Role)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRepository(db)

		mock.ExpectQuery(`INSERT INTO users`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

		_, err = repo.Create(ctx, "buyer@example.com", "hashed", "CUSTOMER")
		assert.ErrorIs(t, err, ErrEmailExists)
	})
}

func TestRepository_FindByEmail_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery(`FROM users`).
		WithArgs("ghost@example.com").
		WillReturnRows(userRows())

	_, err = repo.FindByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRepository_UpdateProfile(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	name := "Jamie Buyer"

	mock.ExpectQuery(`SET full_name = COALESCE\(\$1, full_name\)`).
		WithArgs(&name, 1).
		WillReturnRows(userRows().AddRow(
			1, "buyer@example.com", "hashed", &name, "CUSTOMER", time.Now(), time.Now(),
		))

	u, err := repo.UpdateProfile(context.Background(), 1, &name)
	require.NoError(t, err)
	require.NotNil(t, u.FullName)
	assert.Equal(t, "Jamie Buyer", *u.FullName)
}
