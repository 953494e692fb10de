package middleware

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func TestHTTPMetricsWithMeter(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	router := gin.New()
	router.Use(HTTPMetricsWithMeter(provider.Meter("test"), zap.NewNop()))
	router.GET("/api/products/:id", okHandler)

	perform(router, http.MethodGet, "/api/products/1", nil)
	perform(router, http.MethodGet, "/api/products/2", nil)
	perform(router, http.MethodGet, "/missing", nil)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var total int64
	routes := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "http_server_request_total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				total += dp.Value
				route, _ := dp.Attributes.Value(attrHTTPRoute)
				routes[route.AsString()] += dp.Value
			}
		}
	}

	assert.Equal(t, int64(3), total)
	assert.Equal(t, int64(2), routes["/api/products/:id"])
	assert.Equal(t, int64(1), routes["unknown"])
}

func TestHTTPMetrics_DisabledProvider(t *testing.T) {
	router := gin.New()
	router.Use(HTTPMetrics(nil, zap.NewNop()))
	router.GET("/test", okHandler)

	rec := perform(router, http.MethodGet, "/test", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "2xx", StatusClass(http.StatusCreated))
	assert.Equal(t, "4xx", StatusClass(http.StatusNotFound))
	assert.Equal(t, "5xx", StatusClass(http.StatusInternalServerError))
	assert.Equal(t, "other", StatusClass(0))
}
