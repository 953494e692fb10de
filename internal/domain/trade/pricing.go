package trade

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/grasdvirus/prime-panier/internal/domain/shared"
)

// DefaultShippingFee is the flat delivery fee in XOF
const DefaultShippingFee = 5000

// ShippingPolicy computes order totals with a flat shipping fee
type ShippingPolicy struct {
	FlatFee decimal.Decimal
}

// NewShippingPolicy creates a policy charging fee on every non-empty order
func NewShippingPolicy(fee int64) ShippingPolicy {
	return ShippingPolicy{FlatFee: decimal.NewFromInt(fee)}
}

// Quote is the priced breakdown of an order
type Quote struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// Quote prices items: subtotal = round(Σ price×quantity), shipping is the flat
// fee when the subtotal is positive and zero otherwise.
func (p ShippingPolicy) Quote(items []OrderItem) Quote {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Price.Decimal().Mul(item.Quantity.Decimal()))
	}
	subtotal := sum.Round(0)

	shipping := decimal.Zero
	if subtotal.IsPositive() {
		shipping = p.FlatFee
	}
	return Quote{
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    subtotal.Add(shipping),
	}
}

// ValidateItems rejects lines whose quantity is a number below 1 or not a
// whole number, and lines with a negative price. Non-numeric values are left
// to Quote, which counts them as zero.
func ValidateItems(items []OrderItem) error {
	for i, item := range items {
		line := i + 1
		if q := item.Quantity; q.IsNumeric() {
			if q.Decimal().LessThan(decimal.NewFromInt(1)) || !q.Decimal().Equal(q.Decimal().Truncate(0)) {
				return shared.ErrInvalidInput.WithMessage(
					fmt.Sprintf("Article %d : la quantité doit être un entier supérieur ou égal à 1", line))
			}
		}
		if p := item.Price; p.IsNumeric() && p.Decimal().IsNegative() {
			return shared.ErrInvalidInput.WithMessage(
				fmt.Sprintf("Article %d : le prix ne peut pas être négatif", line))
		}
	}
	return nil
}
