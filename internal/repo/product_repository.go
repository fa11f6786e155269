package repo

import (
	"context"
	"errors"
	"time"

	"github.com/rogerio-castellano/catalog-api/internal/models"
)

// ProductRepository defines the interface for product data operations.
type ProductRepository interface {
	// ListAll returns every product, most recently created first.
	ListAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int64) (models.Product, error)
	// Create stores a product and returns the record as read back from the store.
	Create(ctx context.Context, in models.ProductInput) (models.Product, error)
	// Update replaces all mutable fields of an existing product.
	Update(ctx context.Context, id int64, in models.ProductInput) (models.Product, error)
	// Delete removes a product and returns it as it was before deletion.
	Delete(ctx context.Context, id int64) (models.Product, error)
	Count(ctx context.Context) (int, error)
}

// ErrProductNotFound is returned when a product is not found in the repository.
var ErrProductNotFound = errors.New("product not found")

const queryTimeout = 3 * time.Second

func nowUTC() time.Time {
	return time.Now().UTC()
}
