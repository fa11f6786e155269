package models

import "time"

// Product represents a product record in the catalog.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductInput carries the mutable fields of a product. Create and Update
// both take the full set.
type ProductInput struct {
	Name        string
	Description *string
	Price       float64
	Stock       int
}
