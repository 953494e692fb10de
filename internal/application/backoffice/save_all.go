// Package backoffice implements the admin "save everything" action.
package backoffice

import (
	"context"
	"errors"

	"github.com/grasdvirus/prime-panier/internal/domain/catalog"
	"github.com/grasdvirus/prime-panier/internal/domain/content"
	"github.com/grasdvirus/prime-panier/internal/domain/shared"
	"github.com/grasdvirus/prime-panier/internal/domain/trade"
	"github.com/grasdvirus/prime-panier/internal/infrastructure/logger"
	"github.com/grasdvirus/prime-panier/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ErrPartialSave is returned when at least one type failed to save
var ErrPartialSave = shared.NewDomainError("BULK_SAVE_FAILED", "Échec de l'enregistrement")

// ProductWriter replaces the product catalog
type ProductWriter interface {
	Replace(ctx context.Context, products []catalog.Product) error
}

// ContentWriter replaces homepage content
type ContentWriter interface {
	ReplaceSlides(ctx context.Context, slides []content.Slide) error
	ReplaceBento(ctx context.Context, items []content.BentoItem) error
	ReplaceCollections(ctx context.Context, collections []content.Collection) error
	ReplaceInfoFeatures(ctx context.Context, features []content.InfoFeature) error
	SaveMarquee(ctx context.Context, m content.Marquee) (*content.Marquee, error)
	SaveSettings(ctx context.Context, settings content.SiteSettings) (*content.SiteSettings, error)
}

// OrderWriter replaces the order list
type OrderWriter interface {
	Replace(ctx context.Context, orders []trade.Order) error
}

// BulkSaveRequest is the admin working set. Nil fields are left untouched.
type BulkSaveRequest struct {
	Products     *[]catalog.Product     `json:"products,omitempty"`
	Slides       *[]content.Slide       `json:"slides,omitempty"`
	Bento        *[]content.BentoItem   `json:"bento,omitempty"`
	Collections  *[]content.Collection  `json:"collections,omitempty"`
	InfoFeatures *[]content.InfoFeature `json:"infoFeatures,omitempty"`
	Marquee      *content.Marquee       `json:"marquee,omitempty"`
	Orders       *[]trade.Order         `json:"orders,omitempty"`
	Settings     *content.SiteSettings  `json:"settings,omitempty"`
}

// Empty reports whether the request carries no type at all
func (r BulkSaveRequest) Empty() bool {
	return r.Products == nil && r.Slides == nil && r.Bento == nil && r.Collections == nil &&
		r.InfoFeatures == nil && r.Marquee == nil && r.Orders == nil && r.Settings == nil
}

// TypeResult is the outcome of saving one type
type TypeResult struct {
	Type  string `json:"type"`
	Saved bool   `json:"saved"`
	Count int    `json:"count"`
	Error string `json:"error,omitempty"`
}

// SaveAllResult lists one entry per submitted type, in save order
type SaveAllResult struct {
	Results []TypeResult `json:"results"`
}

// Failed returns the results that did not save
func (r *SaveAllResult) Failed() []TypeResult {
	var failed []TypeResult
	for _, res := range r.Results {
		if !res.Saved {
			failed = append(failed, res)
		}
	}
	return failed
}

// BulkSaveError carries the per-type results of a partially failed save.
// It matches ErrInvalidInput when every failure was a validation failure.
type BulkSaveError struct {
	Result *SaveAllResult
	errs   []error
}

func (e *BulkSaveError) Error() string {
	return ErrPartialSave.Error() + ": " + errors.Join(e.errs...).Error()
}

// Is reports a validation error only when no failure came from storage
func (e *BulkSaveError) Is(target error) bool {
	if errors.Is(target, ErrPartialSave) {
		return true
	}
	if !errors.Is(target, shared.ErrInvalidInput) {
		return false
	}
	for _, err := range e.errs {
		if !shared.IsInvalidInput(err) {
			return false
		}
	}
	return len(e.errs) > 0
}

// Errors returns the per-type causes in save order
func (e *BulkSaveError) Errors() []error {
	return e.errs
}

// SaveAllService saves each submitted type through its own service.
// Types are independent: a failure does not roll back types already saved
// and does not stop the remaining types.
type SaveAllService struct {
	products ProductWriter
	content  ContentWriter
	orders   OrderWriter
}

// NewSaveAllService creates a new SaveAllService
func NewSaveAllService(products ProductWriter, content ContentWriter, orders OrderWriter) *SaveAllService {
	return &SaveAllService{products: products, content: content, orders: orders}
}

type step struct {
	name  string
	count int
	save  func(context.Context) error
}

// SaveAll saves products, slides, bento, collections, info features,
// marquee, orders and settings, in that order, skipping absent types.
func (s *SaveAllService) SaveAll(ctx context.Context, req BulkSaveRequest) (*SaveAllResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "SaveAllService", "SaveAll")
	defer span.End()

	if req.Empty() {
		return nil, shared.ErrInvalidInput.WithMessage("Aucune donnée à enregistrer")
	}

	steps := s.plan(req)
	result := &SaveAllResult{Results: make([]TypeResult, 0, len(steps))}
	var errs []error

	for _, st := range steps {
		res := TypeResult{Type: st.name, Count: st.count}
		if err := st.save(ctx); err != nil {
			res.Error = errorMessage(err)
			errs = append(errs, err)
			logger.L(ctx).Error("Bulk save failed for type",
				zap.String("type", st.name),
				zap.Error(err),
			)
		} else {
			res.Saved = true
		}
		result.Results = append(result.Results, res)
	}

	if len(errs) > 0 {
		err := &BulkSaveError{Result: result, errs: errs}
		telemetry.RecordError(span, err)
		return result, err
	}

	logger.L(ctx).Info("Bulk save completed", zap.Int("types", len(result.Results)))
	return result, nil
}

func (s *SaveAllService) plan(req BulkSaveRequest) []step {
	var steps []step
	if req.Products != nil {
		products := *req.Products
		steps = append(steps, step{"products", len(products), func(ctx context.Context) error {
			return s.products.Replace(ctx, products)
		}})
	}
	if req.Slides != nil {
		slides := *req.Slides
		steps = append(steps, step{"slides", len(slides), func(ctx context.Context) error {
			return s.content.ReplaceSlides(ctx, slides)
		}})
	}
	if req.Bento != nil {
		bento := *req.Bento
		steps = append(steps, step{"bento", len(bento), func(ctx context.Context) error {
			return s.content.ReplaceBento(ctx, bento)
		}})
	}
	if req.Collections != nil {
		collections := *req.Collections
		steps = append(steps, step{"collections", len(collections), func(ctx context.Context) error {
			return s.content.ReplaceCollections(ctx, collections)
		}})
	}
	if req.InfoFeatures != nil {
		features := *req.InfoFeatures
		steps = append(steps, step{"infoFeatures", len(features), func(ctx context.Context) error {
			return s.content.ReplaceInfoFeatures(ctx, features)
		}})
	}
	if req.Marquee != nil {
		marquee := *req.Marquee
		steps = append(steps, step{"marquee", len(marquee.Messages), func(ctx context.Context) error {
			_, err := s.content.SaveMarquee(ctx, marquee)
			return err
		}})
	}
	if req.Orders != nil {
		orders := *req.Orders
		steps = append(steps, step{"orders", len(orders), func(ctx context.Context) error {
			return s.orders.Replace(ctx, orders)
		}})
	}
	if req.Settings != nil {
		settings := *req.Settings
		steps = append(steps, step{"settings", 1, func(ctx context.Context) error {
			_, err := s.content.SaveSettings(ctx, settings)
			return err
		}})
	}
	return steps
}

// errorMessage keeps validation messages and hides storage causes
func errorMessage(err error) string {
	var domainErr *shared.DomainError
	if shared.IsInvalidInput(err) && errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return "Une erreur interne est survenue"
}
