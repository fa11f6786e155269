package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/catalog-api/internal/http/middleware"
	"github.com/rogerio-castellano/catalog-api/internal/http/respond"
)

const apiVersion = "1.0.0"

// IndexHandler godoc
// @Summary Service information
// @Description product_count is included only for a valid bearer token
// @Tags info
// @Produce json
// @Success 200 {object} InfoResponse
// @Router / [get]
func (s *Server) IndexHandler(w http.ResponseWriter, r *http.Request) {
	resp := InfoResponse{
		Message: "JWT-authenticated product catalog API",
		Version: apiVersion,
		Endpoints: map[string]any{
			"auth": map[string]string{
				"login":  "POST /auth/login",
				"verify": "GET /auth/verify",
			},
			"products": map[string]string{
				"list":   "GET /products",
				"get":    "GET /products/:id",
				"create": "POST /products",
				"update": "PUT /products/:id",
				"delete": "DELETE /products/:id",
			},
			"docs": "GET /swagger/index.html",
		},
	}
	if s.authenticated(r) {
		if n, err := s.products.Count(r.Context()); err != nil {
			s.log.Warn("could not count products", "error", err)
		} else {
			resp.ProductCount = &n
		}
	}
	if s.development {
		resp.Example = map[string]string{"username": s.seedUsername}
	}

	_ = respond.JSON(w, http.StatusOK, resp)
}

// authenticated reports whether r carries a valid bearer token. The index
// stays public, so a bad token is not an error here.
func (s *Server) authenticated(r *http.Request) bool {
	token := middleware.BearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return false
	}
	_, err := s.auth.Verify(token)
	return err == nil
}

// NotFoundHandler answers unmatched routes and methods.
func (s *Server) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	_ = respond.JSON(w, http.StatusNotFound, NotFoundResponse{
		Error:  "route not found",
		Method: r.Method,
		URL:    r.URL.RequestURI(),
	})
}
