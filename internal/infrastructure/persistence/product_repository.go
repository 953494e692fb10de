package persistence

import (
	"context"
	"sort"
	"strconv"

	"github.com/grasdvirus/prime-panier/internal/domain/catalog"
)

// ProductRepository implements catalog.ProductRepository on a DocumentStore
type ProductRepository struct {
	products *Collection[catalog.Product]
}

// NewProductRepository creates a new ProductRepository
func NewProductRepository(store DocumentStore) *ProductRepository {
	return &ProductRepository{products: NewCollection[catalog.Product](store, CollectionProducts)}
}

func (r *ProductRepository) FindAll(ctx context.Context) ([]catalog.Product, error) {
	products, err := r.products.All(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].ID < products[j].ID
	})
	return products, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	return r.products.Get(ctx, productKey(id))
}

func (r *ProductRepository) IncrementLikes(ctx context.Context, id int64) (*catalog.Product, error) {
	return r.products.Increment(ctx, productKey(id), "likes", 1)
}

func (r *ProductRepository) ReplaceAll(ctx context.Context, products []catalog.Product) error {
	return r.products.ReplaceAll(ctx, products, func(p catalog.Product) string {
		return productKey(p.ID)
	})
}

func productKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

var _ catalog.ProductRepository = (*ProductRepository)(nil)
