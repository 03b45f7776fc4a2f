package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

const pgUniqueViolation = "23505"

type Repository interface {
	Create(ctx context.Context, email, hashedPassword, role string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, id int) (User, error)
	UpdateProfile(ctx context.Context, id int, fullName *string) (User, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, email, hashedPassword, role string) (User, error) {
	var u User

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (email, password, role)
		VALUES ($1, $2, $3)
		RETURNING id, email, password, role, created_at, updated_at
	`, email, hashedPassword, role).
		Scan(&u.ID, &u.Email, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return User{}, ErrEmailExists
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}

	return u, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (User, error) {
	var u User

	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, password, full_name, role, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email).
		Scan(&u.ID, &u.Email, &u.Password, &u.FullName, &u.Role, &u.CreatedAt, &u.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, err
	}

	return u, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (User, error) {
	var u User

	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, password, full_name, role, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id).
		Scan(&u.ID, &u.Email, &u.Password, &u.FullName, &u.Role, &u.CreatedAt, &u.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, err
	}

	return u, nil
}

func (r *repository) UpdateProfile(ctx context.Context, id int, fullName *string) (User, error) {
	var u User

	err := r.db.QueryRowContext(ctx, `
		UPDATE users
		SET full_name = COALESCE($1, full_name), updated_at = NOW()
		WHERE id = $2
		RETURNING id, email, password, full_name, role, created_at, updated_at
	`, fullName, id).
		Scan(&u.ID, &u.Email, &u.Password, &u.FullName, &u.Role, &u.CreatedAt, &u.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, err
	}

	return u, nil
}
