package repositories

import (
	"context"
	"fmt"
	"sync"

	"catalog/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

// Put stores a copy of the product.
func (r *MockProductRepository) Put(_ context.Context, product *models.Product) error {
	if product.ProductID == "" {
		return fmt.Errorf("failed to put product: empty product_id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.products[product.ProductID] = *product
	return nil
}

// Scan returns all products. Map iteration order makes the result unordered.
func (r *MockProductRepository) Scan(_ context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		productList = append(productList, p)
	}
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(_ context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s: %w", id, ErrProductNotFound)
	}
	return &product, nil
}

// Len reports how many products are stored.
func (r *MockProductRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.products)
}
