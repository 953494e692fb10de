package trade

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/grasdvirus/prime-panier/internal/domain/shared"
	"github.com/grasdvirus/prime-panier/internal/domain/shared/valueobject"
)

// OrderStatus represents the fulfilment status of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// Customer holds the delivery contact captured at checkout
type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address"`
	Notes   string `json:"notes,omitempty"`
}

// Normalize trims every field
func (c *Customer) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Email = strings.TrimSpace(c.Email)
	c.Address = strings.TrimSpace(c.Address)
	c.Notes = strings.TrimSpace(c.Notes)
}

// Validate reports the missing required fields
func (c Customer) Validate() error {
	var missing []string
	if c.Name == "" {
		missing = append(missing, "nom")
	}
	if c.Phone == "" {
		missing = append(missing, "téléphone")
	}
	if c.Address == "" {
		missing = append(missing, "adresse")
	}
	if len(missing) > 0 {
		return shared.ErrInvalidInput.WithMessage(
			fmt.Sprintf("Informations client manquantes : %s", strings.Join(missing, ", ")),
		)
	}
	return nil
}

// OrderItem is one cart line as submitted at checkout.
// Price and Quantity are decoded leniently; non-numeric values count as zero.
type OrderItem struct {
	ID       valueobject.FlexID `json:"id"`
	Name     string             `json:"name"`
	Quantity valueobject.Number `json:"quantity"`
	Price    valueobject.Number `json:"price"`
	Image    string             `json:"image,omitempty"`
}

// Order is a checkout submission. Totals are always computed server side.
type Order struct {
	ID        string      `json:"id"`
	Customer  Customer    `json:"customer"`
	Items     []OrderItem `json:"items"`
	Subtotal  float64     `json:"subtotal"`
	Shipping  float64     `json:"shipping"`
	Total     float64     `json:"total"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt *time.Time  `json:"updatedAt,omitempty"`

	events []shared.DomainEvent
}

// NewOrder validates a checkout submission and builds a pending order.
// Any client supplied id, status, total or timestamp is ignored.
func NewOrder(id string, customer Customer, items []OrderItem, policy ShippingPolicy, now time.Time) (*Order, error) {
	customer.Normalize()
	if err := customer.Validate(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, shared.ErrInvalidInput.WithMessage("La commande doit contenir au moins un article")
	}
	if err := ValidateItems(items); err != nil {
		return nil, err
	}

	quote := policy.Quote(items)
	o := &Order{
		ID:        id,
		Customer:  customer,
		Items:     items,
		Subtotal:  quote.Subtotal.InexactFloat64(),
		Shipping:  quote.Shipping.InexactFloat64(),
		Total:     quote.Total.InexactFloat64(),
		Status:    OrderStatusPending,
		CreatedAt: now.UTC(),
	}
	o.addEvent(NewOrderPlacedEvent(o))
	return o, nil
}

// ChangeStatus sets the order status. Every status may move to every other
// status, including itself.
func (o *Order) ChangeStatus(status OrderStatus, now time.Time) error {
	if !status.IsValid() {
		return shared.ErrInvalidInput.WithMessage(fmt.Sprintf("Statut de commande invalide : %q", status))
	}
	previous := o.Status
	o.Status = status
	at := now.UTC()
	o.UpdatedAt = &at
	o.addEvent(NewOrderStatusChangedEvent(o, previous))
	return nil
}

// Fingerprint identifies the submitted content of the order: the normalized
// customer and the lines. Two submissions of the same cart share it.
func (o *Order) Fingerprint() string {
	payload, _ := json.Marshal(struct {
		Customer Customer    `json:"customer"`
		Items    []OrderItem `json:"items"`
	}{o.Customer, o.Items})
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// ItemCount returns the total number of units across all lines
func (o *Order) ItemCount() int64 {
	var n int64
	for _, item := range o.Items {
		n += item.Quantity.Decimal().IntPart()
	}
	return n
}

// Validate checks an order submitted through the admin bulk replacement
func (o *Order) Validate() error {
	if strings.TrimSpace(o.ID) == "" {
		return shared.ErrInvalidInput.WithMessage("Chaque commande doit avoir un identifiant")
	}
	if !o.Status.IsValid() {
		return shared.ErrInvalidInput.WithMessage(fmt.Sprintf("Commande %s : statut invalide %q", o.ID, o.Status))
	}
	return nil
}

// ValidateSet validates a full order set and checks id uniqueness
func ValidateSet(orders []Order) error {
	seen := make(map[string]struct{}, len(orders))
	for i := range orders {
		if err := orders[i].Validate(); err != nil {
			return err
		}
		if _, dup := seen[orders[i].ID]; dup {
			return shared.ErrInvalidInput.WithMessage(fmt.Sprintf("Identifiant de commande en double : %s", orders[i].ID))
		}
		seen[orders[i].ID] = struct{}{}
	}
	return nil
}

// PullEvents returns and clears the pending domain events
func (o *Order) PullEvents() []shared.DomainEvent {
	events := o.events
	o.events = nil
	return events
}

func (o *Order) addEvent(e shared.DomainEvent) {
	o.events = append(o.events, e)
}
