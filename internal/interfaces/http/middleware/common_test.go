package middleware

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCORSWithConfig(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowOrigins = []string{"https://primepanier.com"}

	router := gin.New()
	router.Use(CORSWithConfig(cfg))
	router.GET("/api/products/get", okHandler)

	t.Run("allowed origin gets headers", func(t *testing.T) {
		rec := perform(router, http.MethodGet, "/api/products/get", map[string]string{"Origin": "https://primepanier.com"})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://primepanier.com", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Idempotency-Key")
	})

	t.Run("unknown origin gets none", func(t *testing.T) {
		rec := perform(router, http.MethodGet, "/api/products/get", map[string]string{"Origin": "https://evil.example"})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight answers 204", func(t *testing.T) {
		rec := perform(router, http.MethodOptions, "/api/products/get", map[string]string{"Origin": "https://primepanier.com"})
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "43200", rec.Header().Get("Access-Control-Max-Age"))
	})
}

func TestCORS_Wildcard(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowOrigins = []string{"*"}

	router := gin.New()
	router.Use(CORSWithConfig(cfg))
	router.GET("/test", okHandler)

	rec := perform(router, http.MethodGet, "/test", map[string]string{"Origin": "http://localhost:3000"})
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	t.Run("generates an id", func(t *testing.T) {
		rec := perform(router, http.MethodGet, "/test", nil)
		id := rec.Header().Get(RequestIDHeader)
		assert.Len(t, id, 36)
		assert.Equal(t, id, rec.Body.String())
	})

	t.Run("keeps the client id", func(t *testing.T) {
		rec := perform(router, http.MethodGet, "/test", map[string]string{RequestIDHeader: "req-42"})
		assert.Equal(t, "req-42", rec.Header().Get(RequestIDHeader))
	})

	t.Run("replaces an oversized id", func(t *testing.T) {
		rec := perform(router, http.MethodGet, "/test", map[string]string{RequestIDHeader: strings.Repeat("x", 500)})
		assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
	})
}

func TestSecure(t *testing.T) {
	router := gin.New()
	router.Use(Secure())
	router.GET("/test", okHandler)

	rec := perform(router, http.MethodGet, "/test", nil)
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))

	cfg := DefaultSecurityConfig()
	cfg.HSTSEnabled = true
	router = gin.New()
	router.Use(SecureWithConfig(cfg))
	router.GET("/test", okHandler)

	rec = perform(router, http.MethodGet, "/test", nil)
	assert.Equal(t, "max-age=31536000; includeSubDomains", rec.Header().Get("Strict-Transport-Security"))
}

func TestTimeout(t *testing.T) {
	router := gin.New()
	router.Use(Timeout(50 * time.Millisecond))
	router.GET("/test", func(c *gin.Context) {
		deadline, ok := c.Request.Context().Deadline()
		assert.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, 50*time.Millisecond)

		<-c.Request.Context().Done()
		assert.ErrorIs(t, c.Request.Context().Err(), context.DeadlineExceeded)
		c.Status(http.StatusGatewayTimeout)
	})

	rec := perform(router, http.MethodGet, "/test", nil)
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}
