package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/grasdvirus/prime-panier/internal/infrastructure/logger"
)

// Pinger reports whether a backend is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
	Time    string `json:"time"`
}

// HealthHandler serves the liveness and storage check
type HealthHandler struct {
	BaseHandler
	storage Pinger
	timeout time.Duration
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(storage Pinger) *HealthHandler {
	return &HealthHandler{storage: storage, timeout: 2 * time.Second}
}

// Check handles GET /health. It answers 503 when the store is unreachable.
func (h *HealthHandler) Check(c *gin.Context) {
	resp := HealthResponse{Status: "ok", Storage: "ok", Time: time.Now().UTC().Format(time.RFC3339)}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	if err := h.storage.Ping(ctx); err != nil {
		logger.L(ctx).Warn("Storage health check failed", zap.Error(err))
		resp.Status = "degraded"
		resp.Storage = "unavailable"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
