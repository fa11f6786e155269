package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingToken       = errors.New("token not provided")
	ErrInvalidToken       = errors.New("invalid token")
)
