package trade

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/grasdvirus/prime-panier/internal/domain/shared"
	"github.com/grasdvirus/prime-panier/internal/domain/trade"
	"github.com/grasdvirus/prime-panier/internal/infrastructure/logger"
	"github.com/grasdvirus/prime-panier/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

const idempotencyKeyPrefix = "order:create:"

// PlaceOrderCommand is a checkout submission
type PlaceOrderCommand struct {
	Customer       trade.Customer    `json:"customer"`
	Items          []trade.OrderItem `json:"items"`
	IdempotencyKey string            `json:"-"`
}

// PlaceOrderResult is the stored order; Replayed is set when an earlier
// submission with the same idempotency key is returned instead.
type PlaceOrderResult struct {
	Order    *trade.Order
	Replayed bool
}

// OrderService handles the checkout and the back-office order workflow
type OrderService struct {
	orderRepo      trade.OrderRepository
	idempotency    shared.IdempotencyStore
	idempotencyTTL time.Duration
	policy         trade.ShippingPolicy
	eventPublisher shared.EventPublisher
	metrics        *telemetry.ShopMetrics
	now            func() time.Time
	newID          func() string
}

// NewOrderService creates a new OrderService. idempotency may be nil, in
// which case Idempotency-Key headers are ignored.
func NewOrderService(
	orderRepo trade.OrderRepository,
	idempotency shared.IdempotencyStore,
	idempotencyTTL time.Duration,
	policy trade.ShippingPolicy,
) *OrderService {
	if idempotencyTTL <= 0 {
		idempotencyTTL = shared.DefaultIdempotencyConfig().TTL
	}
	return &OrderService{
		orderRepo:      orderRepo,
		idempotency:    idempotency,
		idempotencyTTL: idempotencyTTL,
		policy:         policy,
		now:            time.Now,
		newID:          func() string { return uuid.NewString() },
	}
}

// SetEventPublisher sets the event publisher used for admin notifications
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetShopMetrics sets the business metrics recorder
func (s *OrderService) SetShopMetrics(m *telemetry.ShopMetrics) {
	s.metrics = m
}

// Create validates and stores a checkout submission. Totals, status, id and
// creation time are always computed here; client values are ignored.
func (s *OrderService) Create(ctx context.Context, cmd PlaceOrderCommand) (*PlaceOrderResult, error) {
	id := s.newID()
	order, err := trade.NewOrder(id, cmd.Customer, cmd.Items, s.policy, s.now())
	if err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "order", "create",
		telemetry.SpanAttrOrderID, id,
		telemetry.SpanAttrItemCount, len(order.Items))
	defer span.End()

	key := strings.TrimSpace(cmd.IdempotencyKey)
	if key != "" && s.idempotency != nil {
		claimed, err := s.idempotency.Claim(ctx, idempotencyKeyPrefix+key, claimValue(id, order.Fingerprint()), s.idempotencyTTL)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		if !claimed {
			return s.replay(ctx, key, order.Fingerprint())
		}
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		telemetry.RecordError(span, err)
		if key != "" && s.idempotency != nil {
			if releaseErr := s.idempotency.Release(ctx, idempotencyKeyPrefix+key); releaseErr != nil {
				logger.L(ctx).Warn("Failed to release idempotency key", zap.Error(releaseErr))
			}
		}
		return nil, err
	}

	s.metrics.RecordOrderPlaced(ctx, order.Total)
	s.publish(ctx, order.PullEvents())

	logger.L(ctx).Info("Order placed",
		zap.String("order_id", order.ID),
		zap.Int64("items", order.ItemCount()),
		zap.Float64("total", order.Total))

	return &PlaceOrderResult{Order: order}, nil
}

// claimValue stores the order id with the fingerprint of the submission that
// claimed the key.
func claimValue(id, fingerprint string) string {
	return id + "#" + fingerprint
}

// replay returns the order created by an earlier submission with the same key.
// A different cart under the same key is a conflict.
func (s *OrderService) replay(ctx context.Context, key, fingerprint string) (*PlaceOrderResult, error) {
	value, found, err := s.idempotency.Lookup(ctx, idempotencyKeyPrefix+key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, shared.ErrConflict
	}

	existingID, stored, hasFingerprint := strings.Cut(value, "#")
	if hasFingerprint && stored != fingerprint {
		logger.L(ctx).Warn("Idempotency key reused with a different cart", zap.String("order_id", existingID))
		return nil, shared.ErrConflict.WithMessage("Clé d'idempotence déjà utilisée pour une autre commande")
	}

	existing, err := s.orderRepo.FindByID(ctx, existingID)
	if errors.Is(err, shared.ErrNotFound) {
		// The first submission holds the key but has not been stored yet.
		return nil, shared.ErrConflict
	}
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Order submission replayed", zap.String("order_id", existing.ID))
	return &PlaceOrderResult{Order: existing, Replayed: true}, nil
}

// List returns every order, newest first
func (s *OrderService) List(ctx context.Context) ([]trade.Order, error) {
	return s.orderRepo.FindAll(ctx)
}

// Count returns the number of stored orders
func (s *OrderService) Count(ctx context.Context) (int64, error) {
	n, err := s.orderRepo.Count(ctx)
	if err != nil {
		return 0, err
	}
	return int64(n), nil
}

// UpdateStatus sets an order status. Any status may follow any other.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status trade.OrderStatus) (*trade.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, shared.ErrInvalidInput.WithMessage("L'identifiant de la commande est obligatoire")
	}
	if !status.IsValid() {
		return nil, shared.ErrInvalidInput.WithMessage("Statut de commande invalide")
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "order", "update_status",
		telemetry.SpanAttrOrderID, id,
		telemetry.SpanAttrOrderStatus, status.String())
	defer span.End()

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := order.ChangeStatus(status, s.now()); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publish(ctx, order.PullEvents())
	return order, nil
}

// Delete removes an order permanently
func (s *OrderService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return shared.ErrInvalidInput.WithMessage("L'identifiant de la commande est obligatoire")
	}

	if err := s.orderRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, []shared.DomainEvent{trade.NewOrderDeletedEvent(id)})
	logger.L(ctx).Info("Order deleted", zap.String("order_id", id))
	return nil
}

// Replace stores exactly the given orders. Totals are kept as submitted.
func (s *OrderService) Replace(ctx context.Context, orders []trade.Order) error {
	if orders == nil {
		orders = []trade.Order{}
	}
	if err := trade.ValidateSet(orders); err != nil {
		return err
	}
	if err := s.orderRepo.ReplaceAll(ctx, orders); err != nil {
		return err
	}
	logger.L(ctx).Info("Orders replaced", zap.Int("count", len(orders)))
	return nil
}

func (s *OrderService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		logger.L(ctx).Warn("Failed to publish order events", zap.Error(err))
	}
}
