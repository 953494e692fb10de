package persistence

import (
	"context"
	"sort"

	"github.com/grasdvirus/prime-panier/internal/domain/trade"
)

// OrderRepository implements trade.OrderRepository on a DocumentStore
type OrderRepository struct {
	orders *Collection[trade.Order]
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(store DocumentStore) *OrderRepository {
	return &OrderRepository{orders: NewCollection[trade.Order](store, CollectionOrders)}
}

// FindAll returns orders newest first, ties broken by id
func (r *OrderRepository) FindAll(ctx context.Context) ([]trade.Order, error) {
	orders, err := r.orders.All(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID > orders[j].ID
	})
	return orders, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*trade.Order, error) {
	return r.orders.Get(ctx, id)
}

func (r *OrderRepository) Create(ctx context.Context, order *trade.Order) error {
	return r.orders.Create(ctx, order.ID, order)
}

func (r *OrderRepository) Save(ctx context.Context, order *trade.Order) error {
	return r.orders.Update(ctx, order.ID, order)
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	return r.orders.Delete(ctx, id)
}

func (r *OrderRepository) Count(ctx context.Context) (int, error) {
	return r.orders.Count(ctx)
}

func (r *OrderRepository) ReplaceAll(ctx context.Context, orders []trade.Order) error {
	return r.orders.ReplaceAll(ctx, orders, func(o trade.Order) string { return o.ID })
}

var _ trade.OrderRepository = (*OrderRepository)(nil)
