package handler

import (
	"github.com/gin-gonic/gin"

	catalogapp "github.com/grasdvirus/prime-panier/internal/application/catalog"
	"github.com/grasdvirus/prime-panier/internal/domain/catalog"
)

// ProductHandler serves the catalog and the product admin write
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List handles GET /api/products/get?category=&sort=&q=
func (h *ProductHandler) List(c *gin.Context) {
	var query catalogapp.ListProductsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Paramètres de recherche invalides")
		return
	}

	products, err := h.productService.List(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, products)
}

// Categories handles GET /api/products/categories
func (h *ProductHandler) Categories(c *gin.Context) {
	categories, err := h.productService.Categories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, categories)
}

// GetByID handles GET /api/products/:id
func (h *ProductHandler) GetByID(c *gin.Context) {
	product, err := h.productService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, product)
}

// Like handles POST /api/products/:id/like and returns the updated product
func (h *ProductHandler) Like(c *gin.Context) {
	product, err := h.productService.Like(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Replace handles POST /admin/update-products with the full product list
func (h *ProductHandler) Replace(c *gin.Context) {
	var products []catalog.Product
	if !h.BindJSON(c, &products) {
		return
	}

	if err := h.productService.Replace(c.Request.Context(), products); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Saved(c, "Produits enregistrés", gin.H{"count": len(products)})
}
