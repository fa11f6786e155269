// Package auth checks credentials against the user store and issues and
// verifies the bearer tokens that guard the product routes.
package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/rogerio-castellano/catalog-api/internal/models"
	"github.com/rogerio-castellano/catalog-api/internal/repo"
)

// PasswordCost is the bcrypt work factor for stored hashes.
const PasswordCost = bcrypt.DefaultCost

// LoginResult is what a successful login hands back to the client.
type LoginResult struct {
	Token string
	User  models.PublicUser
}

// Service implements login and token verification.
type Service struct {
	users  repo.UserRepository
	tokens *TokenManager

	// dummyHash is compared against when the username is unknown so both
	// failure paths cost exactly one bcrypt comparison.
	dummyHash []byte
}

// NewService hashes the dummy password once, before any login.
func NewService(users repo.UserRepository, tokens *TokenManager) *Service {
	return &Service{users: users, tokens: tokens, dummyHash: newDummyHash()}
}

func newDummyHash() []byte {
	pw := make([]byte, 16)
	_, _ = rand.Read(pw)
	h, err := bcrypt.GenerateFromPassword(pw, PasswordCost)
	if err != nil {
		panic(fmt.Sprintf("auth: cannot build dummy hash: %v", err))
	}
	return h
}

// Login verifies username/password and returns a signed token.
func (s *Service) Login(ctx context.Context, username, password string) (LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, fmt.Errorf("failed to look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Token: token, User: user.Public()}, nil
}

// Verify checks a bearer token and returns its claims.
func (s *Service) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	return s.tokens.Parse(token)
}

// SeedUser hashes password and stores the user unless it already exists.
func (s *Service) SeedUser(ctx context.Context, username, password string) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}
	user, err := s.users.EnsureUser(ctx, username, string(hash))
	if err != nil {
		return models.User{}, fmt.Errorf("failed to seed user %q: %w", username, err)
	}
	return user, nil
}
