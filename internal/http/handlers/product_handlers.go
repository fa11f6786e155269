package handlers

import (
	"errors"
	"net/http"

	"github.com/rogerio-castellano/catalog-api/internal/http/respond"
	"github.com/rogerio-castellano/catalog-api/internal/models"
	"github.com/rogerio-castellano/catalog-api/internal/repo"
)

// GetProductsHandler godoc
// @Summary List all products
// @Description Most recently created first
// @Tags products
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProductsResponse
// @Failure 401 {object} respond.ErrorResponse
// @Failure 403 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /products [get]
func (s *Server) GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := s.products.ListAll(r.Context())
	if err != nil {
		s.serverError(w, r, "could not list products", err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}

	_ = respond.JSON(w, http.StatusOK, ProductsResponse{Message: "products found", Data: products})
}

// GetProductHandler godoc
// @Summary Get a product by ID
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} ProductResponse
// @Failure 404 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /products/{id} [get]
func (s *Server) GetProductHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		productNotFound(w)
		return
	}

	product, err := s.products.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			productNotFound(w)
			return
		}
		s.serverError(w, r, "could not get product", err)
		return
	}

	_ = respond.JSON(w, http.StatusOK, ProductResponse{Message: "product found", Data: product})
}

// CreateProductHandler godoc
// @Summary Create a new product
// @Description Adds a product to the catalog
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} ProductResponse
// @Failure 400 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /products [post]
func (s *Server) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	in, ok := s.readProduct(w, r)
	if !ok {
		return
	}

	created, err := s.products.Create(r.Context(), in)
	if err != nil {
		s.serverError(w, r, "could not create product", err)
		return
	}

	_ = respond.JSON(w, http.StatusCreated, ProductResponse{Message: "product created", Data: created})
}

// UpdateProductHandler godoc
// @Summary Replace a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param product body ProductRequest true "New product fields"
// @Success 200 {object} ProductResponse
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /products/{id} [put]
func (s *Server) UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	in, ok := s.readProduct(w, r)
	if !ok {
		return
	}

	id, ok := productID(r)
	if !ok {
		productNotFound(w)
		return
	}

	updated, err := s.products.Update(r.Context(), id, in)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			productNotFound(w)
			return
		}
		s.serverError(w, r, "could not update product", err)
		return
	}

	_ = respond.JSON(w, http.StatusOK, ProductResponse{Message: "product updated", Data: updated})
}

// DeleteProductHandler godoc
// @Summary Delete a product
// @Description Returns the record as it was before deletion
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} ProductResponse
// @Failure 404 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /products/{id} [delete]
func (s *Server) DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		productNotFound(w)
		return
	}

	deleted, err := s.products.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			productNotFound(w)
			return
		}
		s.serverError(w, r, "could not delete product", err)
		return
	}

	_ = respond.JSON(w, http.StatusOK, ProductResponse{Message: "product deleted", Data: deleted})
}

// readProduct decodes and validates a product body, answering 400 itself
// when the input is unusable.
func (s *Server) readProduct(w http.ResponseWriter, r *http.Request) (models.ProductInput, bool) {
	fields, err := readFields(w, r)
	if err != nil {
		_ = respond.Error(w, http.StatusBadRequest, "invalid request body")
		return models.ProductInput{}, false
	}

	in, validationErrors := validateProduct(fields)
	if len(validationErrors) > 0 {
		_ = respond.JSON(w, http.StatusBadRequest, respond.ErrorResponse{
			Error:   validationMessage(validationErrors),
			Details: validationErrors,
		})
		return models.ProductInput{}, false
	}
	return in, true
}

func productNotFound(w http.ResponseWriter) {
	_ = respond.Error(w, http.StatusNotFound, repo.ErrProductNotFound.Error())
}
