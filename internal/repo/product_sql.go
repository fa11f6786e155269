package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rogerio-castellano/catalog-api/internal/models"
)

// Queries use $N placeholders, understood by both pgx and modernc sqlite.
const (
	selectProductColumns = `SELECT id, name, description, price, stock, created_at, updated_at FROM products`

	listProductsQuery = selectProductColumns + ` ORDER BY created_at DESC, id DESC`

	getProductQuery = selectProductColumns + ` WHERE id = $1`

	insertProductQuery = `INSERT INTO products (name, description, price, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	updateProductQuery = `UPDATE products
		SET name = $1, description = $2, price = $3, stock = $4, updated_at = $5
		WHERE id = $6`

	deleteProductQuery = `DELETE FROM products WHERE id = $1`

	countProductsQuery = `SELECT COUNT(*) FROM products`
)

// SQLProductRepository stores products in the products table of a
// PostgreSQL or SQLite database.
type SQLProductRepository struct {
	db  DBTX
	now func() time.Time
}

func NewSQLProductRepository(db DBTX) *SQLProductRepository {
	return &SQLProductRepository{db: db, now: nowUTC}
}

func scanProduct(s rowScanner) (models.Product, error) {
	var (
		p    models.Product
		desc sql.NullString
	)
	if err := s.Scan(&p.ID, &p.Name, &desc, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return models.Product{}, err
	}
	p.Description = stringPtr(desc)
	return p, nil
}

func (r *SQLProductRepository) ListAll(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, listProductsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (r *SQLProductRepository) GetByID(ctx context.Context, id int64) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return r.getByID(ctx, id)
}

func (r *SQLProductRepository) getByID(ctx context.Context, id int64) (models.Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, getProductQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return p, nil
}

func (r *SQLProductRepository) Create(ctx context.Context, in models.ProductInput) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := r.now()
	var id int64
	err := r.db.QueryRowContext(ctx, insertProductQuery,
		in.Name, nullString(in.Description), in.Price, in.Stock, now, now).Scan(&id)
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to insert product: %w", err)
	}

	created, err := r.getByID(ctx, id)
	if err != nil {
		return models.Product{}, fmt.Errorf("product %d created but could not be read back: %w", id, err)
	}
	return created, nil
}

func (r *SQLProductRepository) Update(ctx context.Context, id int64, in models.ProductInput) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, updateProductQuery,
		in.Name, nullString(in.Description), in.Price, in.Stock, r.now(), id)
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to update product %d: %w", id, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to update product %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return models.Product{}, ErrProductNotFound
	}

	updated, err := r.getByID(ctx, id)
	if err != nil {
		return models.Product{}, fmt.Errorf("product %d updated but could not be read back: %w", id, err)
	}
	return updated, nil
}

func (r *SQLProductRepository) Delete(ctx context.Context, id int64) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	existing, err := r.getByID(ctx, id)
	if err != nil {
		return models.Product{}, err
	}

	res, err := r.db.ExecContext(ctx, deleteProductQuery, id)
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return models.Product{}, ErrProductNotFound
	}
	return existing, nil
}

func (r *SQLProductRepository) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var n int
	if err := r.db.QueryRowContext(ctx, countProductsQuery).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}
