package handlers

import (
	"context"

	"github.com/rogerio-castellano/catalog-api/internal/auth"
	"github.com/rogerio-castellano/catalog-api/internal/config"
	"github.com/rogerio-castellano/catalog-api/internal/logger"
	"github.com/rogerio-castellano/catalog-api/internal/repo"
)

// Authenticator checks credentials, issues tokens and verifies them.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (auth.LoginResult, error)
	Verify(token string) (*auth.Claims, error)
}

// Server holds the dependencies shared by every handler.
type Server struct {
	products repo.ProductRepository
	auth     Authenticator
	log      *logger.Logger

	development  bool
	seedUsername string
}

func NewServer(products repo.ProductRepository, authenticator Authenticator, log *logger.Logger, cfg *config.Config) *Server {
	return &Server{
		products:     products,
		auth:         authenticator,
		log:          log,
		development:  cfg.IsDevelopment(),
		seedUsername: cfg.Seed.Username,
	}
}
