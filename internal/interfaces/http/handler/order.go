package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	tradeapp "github.com/grasdvirus/prime-panier/internal/application/trade"
	"github.com/grasdvirus/prime-panier/internal/domain/trade"
	"github.com/grasdvirus/prime-panier/internal/interfaces/http/dto"
)

// Checkout idempotency headers
const (
	IdempotencyKeyHeader     = "Idempotency-Key"
	IdempotentReplayedHeader = "Idempotent-Replayed"
	maxIdempotencyKeyLength  = 128
)

// UpdateOrderStatusRequest is the body of POST /api/orders/update
type UpdateOrderStatusRequest struct {
	ID     string            `json:"id" binding:"required"`
	Status trade.OrderStatus `json:"status" binding:"required"`
}

// OrderHandler serves checkout and the order back-office
type OrderHandler struct {
	BaseHandler
	orderService *tradeapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *tradeapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create handles POST /api/orders/create. A repeated Idempotency-Key
// returns the first order with 200 instead of 201.
func (h *OrderHandler) Create(c *gin.Context) {
	var cmd tradeapp.PlaceOrderCommand
	if !h.BindJSON(c, &cmd) {
		return
	}

	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	if len(key) > maxIdempotencyKeyLength {
		h.BadRequest(c, "En-tête Idempotency-Key trop long")
		return
	}
	cmd.IdempotencyKey = key

	result, err := h.orderService.Create(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if result.Replayed {
		c.Header(IdempotentReplayedHeader, "true")
		h.Success(c, result.Order)
		return
	}
	h.Created(c, result.Order)
}

// List handles GET /api/orders/get, newest first
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.orderService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if orders == nil {
		orders = []trade.Order{}
	}
	h.OK(c, orders)
}

// Count handles GET /api/orders/count
func (h *OrderHandler) Count(c *gin.Context) {
	count, err := h.orderService.Count(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, dto.CountResponse{Count: count})
}

// UpdateStatus handles POST /api/orders/update
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req UpdateOrderStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), req.ID, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Delete handles POST /api/orders/delete
func (h *OrderHandler) Delete(c *gin.Context) {
	var req dto.IDRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), req.ID); err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Response{Success: true, Message: "Commande supprimée"})
}

// Replace handles POST /admin/update-orders
func (h *OrderHandler) Replace(c *gin.Context) {
	var orders []trade.Order
	if !h.BindJSON(c, &orders) {
		return
	}

	if err := h.orderService.Replace(c.Request.Context(), orders); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Saved(c, "Commandes enregistrées", gin.H{"count": len(orders)})
}
