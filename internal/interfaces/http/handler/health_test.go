package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler_Check(t *testing.T) {
	tests := []struct {
		name       string
		pinger     Pinger
		wantStatus int
		wantBody   HealthResponse
	}{
		{
			name:       "memory store",
			pinger:     newServices().store,
			wantStatus: http.StatusOK,
			wantBody:   HealthResponse{Status: "ok", Storage: "ok"},
		},
		{
			name:       "store unreachable",
			pinger:     pingerFunc(func(context.Context) error { return errors.New("connection refused") }),
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   HealthResponse{Status: "degraded", Storage: "unavailable"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/health", NewHealthHandler(tt.pinger).Check)

			w := performJSON(r, http.MethodGet, "/health", nil)
			assert.Equal(t, tt.wantStatus, w.Code)

			got := decode[HealthResponse](t, w)
			assert.Equal(t, tt.wantBody.Status, got.Status)
			assert.Equal(t, tt.wantBody.Storage, got.Storage)
			assert.NotEmpty(t, got.Time)
		})
	}
}
