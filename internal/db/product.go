package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Product is a row in the decision matrix.
type Product struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateProduct inserts a new product.
func (db *DB) CreateProduct(product *Product) error {
	if product.Name == "" {
		return fmt.Errorf("product name is required")
	}

	result, err := db.DB.Exec("INSERT INTO products (name) VALUES (?)", product.Name)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get product ID: %w", err)
	}
	product.ID = int(id)
	return nil
}

// ListProducts returns all products in insertion order. The ranking engine
// relies on this ordering as the tie-break for equal preference scores.
func (db *DB) ListProducts() ([]Product, error) {
	rows, err := db.Query("SELECT id, name, created_at FROM products ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var product Product
		if err := rows.Scan(&product.ID, &product.Name, &product.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetProduct retrieves a single product by ID.
func (db *DB) GetProduct(id int) (*Product, error) {
	var product Product
	err := db.DB.QueryRow(
		"SELECT id, name, created_at FROM products WHERE id = ?", id,
	).Scan(&product.ID, &product.Name, &product.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}
