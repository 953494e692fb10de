package trade

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/grasdvirus/prime-panier/internal/domain/shared"
	"github.com/grasdvirus/prime-panier/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

func awaCustomer() Customer {
	return Customer{Name: "Awa", Phone: "0700000000", Address: "Abidjan"}
}

func tshirtLine(qty, price int64) OrderItem {
	return OrderItem{
		ID:       valueobject.IntID(1),
		Name:     "T-shirt",
		Quantity: valueobject.NumberFromInt(qty),
		Price:    valueobject.NumberFromInt(price),
	}
}

func halfLine() OrderItem {
	line := tshirtLine(1, 3000)
	line.Quantity = valueobject.NumberFromFloat(0.5)
	return line
}

func TestNewOrder_Success(t *testing.T) {
	order, err := NewOrder("ord-1", awaCustomer(), []OrderItem{tshirtLine(2, 3000)}, NewShippingPolicy(DefaultShippingFee), fixedNow)
	require.NoError(t, err)

	assert.Equal(t, "ord-1", order.ID)
	assert.Equal(t, 6000.0, order.Subtotal)
	assert.Equal(t, 5000.0, order.Shipping)
	assert.Equal(t, 11000.0, order.Total)
	assert.Equal(t, OrderStatusPending, order.Status)
	assert.Equal(t, fixedNow, order.CreatedAt)
	assert.Nil(t, order.UpdatedAt)

	events := order.PullEvents()
	require.Len(t, events, 1)
	placed, ok := events[0].(*OrderPlacedEvent)
	require.True(t, ok)
	assert.Equal(t, EventTypeOrderPlaced, placed.EventType())
	assert.Equal(t, "ord-1", placed.AggregateID())
	assert.Equal(t, int64(2), placed.ItemCount)
	assert.Equal(t, 11000.0, placed.Total)
	assert.Empty(t, order.PullEvents())
}

func TestNewOrder_TrimsCustomer(t *testing.T) {
	c := Customer{Name: "  Awa ", Phone: " 07 ", Address: " Abidjan  ", Email: " awa@example.com "}
	order, err := NewOrder("ord-1", c, []OrderItem{tshirtLine(1, 1000)}, NewShippingPolicy(DefaultShippingFee), fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "Awa", order.Customer.Name)
	assert.Equal(t, "awa@example.com", order.Customer.Email)
}

func TestNewOrder_ValidationFailures(t *testing.T) {
	policy := NewShippingPolicy(DefaultShippingFee)
	items := []OrderItem{tshirtLine(1, 1000)}

	tests := []struct {
		name     string
		customer Customer
		items    []OrderItem
		wantMsg  string
	}{
		{"missing name", Customer{Phone: "07", Address: "Abidjan"}, items, "nom"},
		{"missing phone", Customer{Name: "Awa", Address: "Abidjan"}, items, "téléphone"},
		{"missing address", Customer{Name: "Awa", Phone: "07"}, items, "adresse"},
		{"blank fields", Customer{Name: " ", Phone: " ", Address: " "}, items, "nom, téléphone, adresse"},
		{"no items", awaCustomer(), nil, "au moins un article"},
		{"negative quantity", awaCustomer(), []OrderItem{tshirtLine(-3, 3000)}, "quantité"},
		{"negative line lowers another", awaCustomer(), []OrderItem{tshirtLine(2, 3000), tshirtLine(-1, 5000)}, "Article 2"},
		{"zero quantity", awaCustomer(), []OrderItem{tshirtLine(0, 3000)}, "quantité"},
		{"fractional quantity", awaCustomer(), []OrderItem{halfLine()}, "entier"},
		{"negative price", awaCustomer(), []OrderItem{tshirtLine(1, -500)}, "prix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := NewOrder("ord-x", tt.customer, tt.items, policy, fixedNow)
			require.Error(t, err)
			assert.Nil(t, order)
			assert.True(t, shared.IsInvalidInput(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestNewOrder_NonNumericQuantityCountsAsZero(t *testing.T) {
	var items []OrderItem
	require.NoError(t, json.Unmarshal([]byte(`[{"id":1,"name":"T-shirt","quantity":"deux","price":3000},{"id":2,"name":"Pagne","quantity":1,"price":4000}]`), &items))

	order, err := NewOrder("ord-1", awaCustomer(), items, NewShippingPolicy(DefaultShippingFee), fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 4000.0, order.Subtotal)
	assert.Equal(t, 9000.0, order.Total)
}

func TestOrder_Fingerprint(t *testing.T) {
	policy := NewShippingPolicy(DefaultShippingFee)
	base, err := NewOrder("a", awaCustomer(), []OrderItem{tshirtLine(2, 3000)}, policy, time.Now())
	require.NoError(t, err)

	padded := awaCustomer()
	padded.Name = "  Awa "
	sameCart, err := NewOrder("b", padded, []OrderItem{tshirtLine(2, 3000)}, policy, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, base.Fingerprint(), sameCart.Fingerprint())

	otherCart, err := NewOrder("c", awaCustomer(), []OrderItem{tshirtLine(3, 3000)}, policy, time.Now())
	require.NoError(t, err)
	assert.NotEqual(t, base.Fingerprint(), otherCart.Fingerprint())
}

func TestOrder_ChangeStatus(t *testing.T) {
	statuses := []OrderStatus{OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusCancelled}

	for _, from := range statuses {
		for _, to := range statuses {
			order := &Order{ID: "ord-1", Status: from}
			require.NoError(t, order.ChangeStatus(to, fixedNow), "%s -> %s", from, to)
			assert.Equal(t, to, order.Status)
			require.NotNil(t, order.UpdatedAt)

			events := order.PullEvents()
			require.Len(t, events, 1)
			changed := events[0].(*OrderStatusChangedEvent)
			assert.Equal(t, from, changed.From)
			assert.Equal(t, to, changed.To)
		}
	}
}

func TestOrder_ChangeStatus_Invalid(t *testing.T) {
	order := &Order{ID: "ord-1", Status: OrderStatusPending}
	err := order.ChangeStatus("delivered", fixedNow)
	require.Error(t, err)
	assert.True(t, shared.IsInvalidInput(err))
	assert.Equal(t, OrderStatusPending, order.Status)
}

func TestValidateSet(t *testing.T) {
	ok := []Order{{ID: "a", Status: OrderStatusPending}, {ID: "b", Status: OrderStatusShipped}}
	assert.NoError(t, ValidateSet(ok))

	assert.Error(t, ValidateSet([]Order{{ID: "", Status: OrderStatusPending}}))
	assert.Error(t, ValidateSet([]Order{{ID: "a", Status: "lost"}}))
	assert.Error(t, ValidateSet([]Order{{ID: "a", Status: OrderStatusPending}, {ID: "a", Status: OrderStatusPending}}))
}

func TestOrder_JSONShape(t *testing.T) {
	var order Order
	body := `{"id":"ignored","customer":{"name":"Awa","phone":"07","address":"Abidjan"},
		"items":[{"id":1,"name":"T-shirt","quantity":"2","price":3000}],"status":"shipped","total":1}`
	require.NoError(t, json.Unmarshal([]byte(body), &order))

	assert.Equal(t, 2.0, order.Items[0].Quantity.Float64())
	assert.True(t, order.Items[0].ID.IsNumeric())

	out, err := json.Marshal(Order{ID: "x", Items: []OrderItem{tshirtLine(2, 3000)}, Status: OrderStatusPending, CreatedAt: fixedNow})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"createdAt":"2026-03-14T10:30:00Z"`)
	assert.Contains(t, string(out), `"quantity":2`)
	assert.NotContains(t, string(out), "updatedAt")
}
