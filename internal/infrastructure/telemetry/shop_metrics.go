package telemetry

import (
	"context"
	"errors"
	"math"

	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a metrics set is created without a meter.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// ShopMetrics holds the storefront business counters.
type ShopMetrics struct {
	ordersPlaced    *Counter
	orderAmount     *Counter
	productLikes    *Counter
	contactMessages *Counter
}

// NewShopMetrics creates the storefront counters on meter.
func NewShopMetrics(meter metric.Meter) (*ShopMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	var (
		m   ShopMetrics
		err error
	)
	if m.ordersPlaced, err = NewCounter(meter, "orders_placed_total", "Total number of orders placed", "{order}"); err != nil {
		return nil, err
	}
	if m.orderAmount, err = NewCounter(meter, "order_amount_total", "Total order amount including shipping", "{currency_unit}"); err != nil {
		return nil, err
	}
	if m.productLikes, err = NewCounter(meter, "product_likes_total", "Total number of product likes", "{like}"); err != nil {
		return nil, err
	}
	if m.contactMessages, err = NewCounter(meter, "contact_messages_total", "Total number of contact messages received", "{message}"); err != nil {
		return nil, err
	}
	return &m, nil
}

// RecordOrderPlaced counts an order and adds its total, rounded to whole units.
func (m *ShopMetrics) RecordOrderPlaced(ctx context.Context, total float64) {
	if m == nil {
		return
	}
	m.ordersPlaced.Inc(ctx)
	m.orderAmount.Add(ctx, int64(math.Round(total)))
}

// RecordProductLiked counts a like on a product.
func (m *ShopMetrics) RecordProductLiked(ctx context.Context, category string) {
	if m == nil {
		return
	}
	m.productLikes.Inc(ctx, AttrCategory.String(category))
}

// RecordContactMessage counts a received contact message.
func (m *ShopMetrics) RecordContactMessage(ctx context.Context) {
	if m == nil {
		return
	}
	m.contactMessages.Inc(ctx)
}
