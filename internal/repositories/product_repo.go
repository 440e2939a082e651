package repositories

import (
	"context"
	"errors"

	"catalog/internal/models"
)

// ErrProductNotFound is returned by GetByID when no record has the given ID.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository defines the interface for the product record store.
type ProductRepository interface {
	// Put writes the record unconditionally, replacing any record with the same ID.
	Put(ctx context.Context, product *models.Product) error
	// Scan returns every stored record in no particular order.
	Scan(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
}
