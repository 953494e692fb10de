package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	catalogapp "github.com/grasdvirus/prime-panier/internal/application/catalog"
	contactapp "github.com/grasdvirus/prime-panier/internal/application/contact"
	contentapp "github.com/grasdvirus/prime-panier/internal/application/content"
	tradeapp "github.com/grasdvirus/prime-panier/internal/application/trade"
	"github.com/grasdvirus/prime-panier/internal/domain/catalog"
	"github.com/grasdvirus/prime-panier/internal/domain/trade"
	"github.com/grasdvirus/prime-panier/internal/infrastructure/cache"
	"github.com/grasdvirus/prime-panier/internal/infrastructure/persistence"
	"github.com/grasdvirus/prime-panier/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// services wires the application layer over an in-memory document store
type services struct {
	store    *persistence.MemoryDocumentStore
	products *catalogapp.ProductService
	content  *contentapp.Service
	orders   *tradeapp.OrderService
	contact  *contactapp.Service
}

func newServices() *services {
	store := persistence.NewMemoryDocumentStore()
	return &services{
		store:    store,
		products: catalogapp.NewProductService(persistence.NewProductRepository(store), zap.NewNop()),
		content:  contentapp.NewService(persistence.NewContentRepository(store), 12, zap.NewNop()),
		orders: tradeapp.NewOrderService(
			persistence.NewOrderRepository(store),
			cache.NewInMemoryIdempotencyStore(),
			0,
			trade.NewShippingPolicy(trade.DefaultShippingFee),
		),
		contact: contactapp.NewService(persistence.NewMessageRepository(store)),
	}
}

func seedProducts(t *testing.T, s *services) {
	t.Helper()
	require.NoError(t, s.products.Replace(t.Context(), []catalog.Product{
		{ID: 1, Name: "Sac en raphia", Price: 15000, Category: "Accessoires", Stock: 4,
			Reviews: []catalog.Review{{Author: "Awa", Rating: 5}, {Author: "Koffi", Rating: 4}}},
		{ID: 2, Name: "Pagne wax", Price: 8000, Category: "Mode", Stock: 10},
		{ID: 3, Name: "Savon noir", Price: 2500, Category: "Beauté", Stock: 0},
	}))
}

func performJSON(r http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// envelope mirrors dto.Response with a typed payload
type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
	Error   *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}
