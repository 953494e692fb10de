package trade

import "context"

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindAll returns every order, newest first
	FindAll(ctx context.Context) ([]Order, error)

	// FindByID returns shared.ErrNotFound when the order does not exist
	FindByID(ctx context.Context, id string) (*Order, error)

	// Create stores a new order
	Create(ctx context.Context, order *Order) error

	// Save overwrites an existing order, shared.ErrNotFound if it is gone
	Save(ctx context.Context, order *Order) error

	// Delete removes an order, shared.ErrNotFound if it does not exist
	Delete(ctx context.Context, id string) error

	// Count returns the number of stored orders
	Count(ctx context.Context) (int, error)

	// ReplaceAll makes the stored set exactly equal to orders
	ReplaceAll(ctx context.Context, orders []Order) error
}
