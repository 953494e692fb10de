package catalog

import (
	"context"
	"strconv"

	"github.com/grasdvirus/prime-panier/internal/domain/catalog"
	"github.com/grasdvirus/prime-panier/internal/domain/shared"
	"github.com/grasdvirus/prime-panier/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ListProductsQuery carries the storefront listing parameters
type ListProductsQuery struct {
	Category string `form:"category"`
	Sort     string `form:"sort"`
	Query    string `form:"q"`
}

// ProductService serves the storefront catalog and its back-office replacement
type ProductService struct {
	productRepo catalog.ProductRepository
	metrics     *telemetry.ShopMetrics
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		logger:      logger,
	}
}

// SetShopMetrics sets the business metrics recorder
func (s *ProductService) SetShopMetrics(m *telemetry.ShopMetrics) {
	s.metrics = m
}

// List returns the full catalog filtered and sorted in memory
func (s *ProductService) List(ctx context.Context, q ListProductsQuery) ([]catalog.Product, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	filter := catalog.ProductFilter{
		Category: q.Category,
		Query:    q.Query,
		Sort:     catalog.ParseSortOrder(q.Sort),
	}
	return filter.Apply(products), nil
}

// Categories returns the distinct product categories in catalog order
func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Categories(products), nil
}

// GetByID returns one product
func (s *ProductService) GetByID(ctx context.Context, rawID string) (*catalog.Product, error) {
	id, err := parseProductID(rawID)
	if err != nil {
		return nil, err
	}
	return s.productRepo.FindByID(ctx, id)
}

// Like adds exactly one like to a product and returns the updated product
func (s *ProductService) Like(ctx context.Context, rawID string) (*catalog.Product, error) {
	id, err := parseProductID(rawID)
	if err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "product", "like", telemetry.SpanAttrProductID, id)
	defer span.End()

	product, err := s.productRepo.IncrementLikes(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.metrics.RecordProductLiked(ctx, product.Category)
	return product, nil
}

// Replace validates, normalizes and stores the full product set. Products
// absent from the set are removed.
func (s *ProductService) Replace(ctx context.Context, products []catalog.Product) error {
	if products == nil {
		products = []catalog.Product{}
	}
	for i := range products {
		products[i].Normalize()
	}
	if err := catalog.ValidateSet(products); err != nil {
		return err
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "product", "replace", telemetry.SpanAttrItemCount, len(products))
	defer span.End()

	if err := s.productRepo.ReplaceAll(ctx, products); err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	s.logger.Info("Product catalog replaced", zap.Int("count", len(products)))
	return nil
}

func parseProductID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, shared.ErrNotFound.WithMessage("Produit introuvable")
	}
	return id, nil
}
