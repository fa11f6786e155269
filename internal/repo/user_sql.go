package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rogerio-castellano/catalog-api/internal/models"
)

const (
	getUserByUsernameQuery = `SELECT id, username, password_hash, created_at FROM users WHERE username = $1`

	insertUserQuery = `INSERT INTO users (username, password_hash, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (username) DO NOTHING`
)

type SQLUserRepository struct {
	db DBTX
}

func NewSQLUserRepository(db DBTX) *SQLUserRepository {
	return &SQLUserRepository{db: db}
}

func (r *SQLUserRepository) GetByUsername(ctx context.Context, username string) (models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var u models.User
	err := r.db.QueryRowContext(ctx, getUserByUsernameQuery, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (r *SQLUserRepository) EnsureUser(ctx context.Context, username, passwordHash string) (models.User, error) {
	insertCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := r.db.ExecContext(insertCtx, insertUserQuery, username, passwordHash, nowUTC()); err != nil {
		return models.User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	return r.GetByUsername(ctx, username)
}
