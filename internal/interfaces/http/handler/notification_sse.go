package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/grasdvirus/prime-panier/internal/application/notification"
	"github.com/grasdvirus/prime-panier/internal/interfaces/http/middleware"
)

// SSE event names
const (
	SSEEventConnected = "connected"
	SSEEventNewOrders = "new-orders"
	SSEEventHeartbeat = "heartbeat"
)

// SSEMessage is one server-sent event
type SSEMessage struct {
	Event string
	Data  string
	ID    string
}

// NotificationStreamHandler pushes new-order notifications to admin
// browsers over server-sent events
type NotificationStreamHandler struct {
	BaseHandler
	hub        *notification.Hub
	logger     *zap.Logger
	heartbeat  time.Duration
	maxClients int
	clients    atomic.Int64
}

// NotificationStreamOption configures the handler
type NotificationStreamOption func(*NotificationStreamHandler)

// WithSSEHeartbeat sets the heartbeat interval
func WithSSEHeartbeat(interval time.Duration) NotificationStreamOption {
	return func(h *NotificationStreamHandler) {
		h.heartbeat = interval
	}
}

// WithSSEMaxClients sets the maximum number of concurrent streams
func WithSSEMaxClients(max int) NotificationStreamOption {
	return func(h *NotificationStreamHandler) {
		h.maxClients = max
	}
}

// NewNotificationStreamHandler creates a new NotificationStreamHandler
func NewNotificationStreamHandler(hub *notification.Hub, logger *zap.Logger, opts ...NotificationStreamOption) *NotificationStreamHandler {
	h := &NotificationStreamHandler{
		hub:        hub,
		logger:     logger,
		heartbeat:  30 * time.Second,
		maxClients: 100,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Stream handles GET /admin/notifications/stream
func (h *NotificationStreamHandler) Stream(c *gin.Context) {
	// Reserve the slot first so concurrent connects cannot both pass the limit.
	if n := h.clients.Add(1); h.maxClients > 0 && n > int64(h.maxClients) {
		h.clients.Add(-1)
		h.Error(c, http.StatusServiceUnavailable, "ERR_MAX_CONNECTIONS", "Trop de connexions ouvertes")
		return
	}
	defer h.clients.Add(-1)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	updates, unsubscribe := h.hub.Subscribe()
	defer unsubscribe()

	clientID := uuid.NewString()
	email := ""
	if p := middleware.GetPrincipal(c); p != nil {
		email = p.Email
	}
	h.logger.Info("SSE client connected", zap.String("client_id", clientID), zap.String("email", email))

	// The server WriteTimeout would otherwise cut long-lived streams
	_ = http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{})

	c.Status(http.StatusOK)
	writeSSE(c.Writer, SSEMessage{
		Event: SSEEventConnected,
		Data:  fmt.Sprintf(`{"client_id":%q,"timestamp":%d}`, clientID, time.Now().Unix()),
	})
	c.Writer.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("SSE client disconnected", zap.String("client_id", clientID))
			return
		case n, ok := <-updates:
			if !ok {
				return
			}
			data, err := json.Marshal(n)
			if err != nil {
				h.logger.Error("Failed to marshal SSE event", zap.Error(err))
				continue
			}
			writeSSE(c.Writer, SSEMessage{
				Event: SSEEventNewOrders,
				Data:  string(data),
				ID:    fmt.Sprintf("%d", n.At.UnixMilli()),
			})
			c.Writer.Flush()
		case t := <-ticker.C:
			writeSSE(c.Writer, SSEMessage{
				Event: SSEEventHeartbeat,
				Data:  fmt.Sprintf(`{"timestamp":%d}`, t.Unix()),
			})
			c.Writer.Flush()
		}
	}
}

// ClientCount returns the number of open streams
func (h *NotificationStreamHandler) ClientCount() int {
	return int(h.clients.Load())
}

func writeSSE(w io.Writer, msg SSEMessage) {
	if msg.Event != "" {
		fmt.Fprintf(w, "event: %s\n", msg.Event)
	}
	if msg.ID != "" {
		fmt.Fprintf(w, "id: %s\n", msg.ID)
	}
	fmt.Fprintf(w, "data: %s\n\n", msg.Data)
}
