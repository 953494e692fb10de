package catalog

import "context"

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindAll returns every stored product ordered by id
	FindAll(ctx context.Context) ([]Product, error)

	// FindByID returns shared.ErrNotFound when the product does not exist
	FindByID(ctx context.Context, id int64) (*Product, error)

	// IncrementLikes atomically adds one like and returns the updated product
	IncrementLikes(ctx context.Context, id int64) (*Product, error)

	// ReplaceAll makes the stored set exactly equal to products
	ReplaceAll(ctx context.Context, products []Product) error
}
