package handlers

import (
	"github.com/rogerio-castellano/catalog-api/internal/auth"
	"github.com/rogerio-castellano/catalog-api/internal/models"
)

// ProductRequest documents the create/update body. price and stock also
// accept numeric strings.
type ProductRequest struct {
	Name        string  `json:"name" example:"Widget"`
	Description *string `json:"description,omitempty" example:"A small widget"`
	Price       float64 `json:"price" example:"9.99"`
	Stock       int     `json:"stock,omitempty" example:"0"`
}

type ProductResponse struct {
	Message string         `json:"message"`
	Data    models.Product `json:"data"`
}

type ProductsResponse struct {
	Message string           `json:"message"`
	Data    []models.Product `json:"data"`
}

type CredentialsRequest struct {
	Username string `json:"username" example:"admin"`
	Password string `json:"password" example:"admin123"`
}

type LoginResult struct {
	Message string            `json:"message"`
	Token   string            `json:"token"`
	User    models.PublicUser `json:"user"`
}

type VerifyResult struct {
	Message string       `json:"message"`
	User    *auth.Claims `json:"user"`
}

type NotFoundResponse struct {
	Error  string `json:"error"`
	Method string `json:"method"`
	URL    string `json:"url"`
}

type InfoResponse struct {
	Message      string            `json:"message"`
	Version      string            `json:"version"`
	Endpoints    map[string]any    `json:"endpoints"`
	ProductCount *int              `json:"product_count,omitempty"`
	Example      map[string]string `json:"example,omitempty"`
}
