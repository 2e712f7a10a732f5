package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"retailpos/m/domain"
)

type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	u.Email = strings.ToLower(u.Email)
	_, err := r.db.NamedExecContext(ctx, `INSERT INTO users (id, username, email, password, role, created_at)
		VALUES (:id, :username, :email, :password, :role, :created_at)`, u)
	if err != nil {
		return fmt.Errorf("insert user %s: %w", u.Email, err)
	}
	return nil
}

func (r *UserRepo) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.GetContext(ctx, &u, r.db.Rebind(`SELECT id, username, email, password, role, created_at FROM users WHERE email = ?`), strings.ToLower(email))
	if notFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", email, err)
	}
	return &u, nil
}
