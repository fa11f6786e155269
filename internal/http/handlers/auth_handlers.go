package handlers

import (
	"errors"
	"net/http"

	"github.com/rogerio-castellano/catalog-api/internal/auth"
	"github.com/rogerio-castellano/catalog-api/internal/http/middleware"
	"github.com/rogerio-castellano/catalog-api/internal/http/respond"
)

// LoginHandler godoc
// @Summary Log in and receive a JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body CredentialsRequest true "username and password"
// @Success 200 {object} LoginResult
// @Failure 400 {object} respond.ErrorResponse
// @Failure 401 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /auth/login [post]
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	fields, err := readFields(w, r)
	if err != nil {
		_ = respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	username, _ := fields["username"].(string)
	password, _ := fields["password"].(string)
	if username == "" || password == "" {
		_ = respond.Error(w, http.StatusBadRequest, "username and password are required")
		return
	}

	result, err := s.auth.Login(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			_ = respond.Error(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		s.serverError(w, r, "internal server error", err)
		return
	}

	_ = respond.JSON(w, http.StatusOK, LoginResult{
		Message: "login successful",
		Token:   result.Token,
		User:    result.User,
	})
}

// VerifyHandler godoc
// @Summary Check a bearer token and return its claims
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} VerifyResult
// @Failure 401 {object} respond.ErrorResponse
// @Failure 403 {object} respond.ErrorResponse
// @Router /auth/verify [get]
func (s *Server) VerifyHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		_ = respond.Error(w, http.StatusUnauthorized, auth.ErrMissingToken.Error())
		return
	}

	_ = respond.JSON(w, http.StatusOK, VerifyResult{Message: "token is valid", User: claims})
}
