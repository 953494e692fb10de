package trade

import (
	"github.com/grasdvirus/prime-panier/internal/domain/shared"
)

// AggregateTypeOrder is the aggregate type of storefront orders
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderPlaced        = "OrderPlaced"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
	EventTypeOrderDeleted       = "OrderDeleted"
)

// OrderPlacedEvent is raised when a checkout submission is stored
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderID      string  `json:"order_id"`
	CustomerName string  `json:"customer_name"`
	Phone        string  `json:"phone"`
	Address      string  `json:"address"`
	ItemCount    int64   `json:"item_count"`
	Total        float64 `json:"total"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		CustomerName:    o.Customer.Name,
		Phone:           o.Customer.Phone,
		Address:         o.Customer.Address,
		ItemCount:       o.ItemCount(),
		Total:           o.Total,
	}
}

// OrderStatusChangedEvent is raised when the admin changes an order status
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID string      `json:"order_id"`
	From    OrderStatus `json:"from"`
	To      OrderStatus `json:"to"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, from OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		From:            from,
		To:              o.Status,
	}
}

// OrderDeletedEvent is raised when the admin deletes an order
type OrderDeletedEvent struct {
	shared.BaseDomainEvent
	OrderID string `json:"order_id"`
}

// NewOrderDeletedEvent creates a new OrderDeletedEvent
func NewOrderDeletedEvent(orderID string) *OrderDeletedEvent {
	return &OrderDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderDeleted, AggregateTypeOrder, orderID),
		OrderID:         orderID,
	}
}
