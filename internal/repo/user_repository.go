package repo

import (
	"context"
	"errors"

	"github.com/rogerio-castellano/catalog-api/internal/models"
)

type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (models.User, error)
	// EnsureUser inserts the user unless the username is already taken and
	// returns the stored record either way.
	EnsureUser(ctx context.Context, username, passwordHash string) (models.User, error)
}

var ErrUserNotFound = errors.New("user not found")
