// Package content serves and replaces the homepage content managed from the
// back-office.
package content

import (
	"context"
	"errors"

	"github.com/grasdvirus/prime-panier/internal/domain/content"
	"github.com/grasdvirus/prime-panier/internal/domain/shared"
	"github.com/grasdvirus/prime-panier/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Service reads and replaces slides, bento tiles, collections, info features,
// the marquee and the site settings.
type Service struct {
	repo     content.Repository
	defaults content.SiteSettings
	logger   *zap.Logger
}

// NewService creates a new content Service. productsPerPage is the default
// page size served when no site settings are stored.
func NewService(repo content.Repository, productsPerPage int, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		defaults: content.DefaultSiteSettings(productsPerPage),
		logger:   logger,
	}
}

// Slides returns the hero slides in stored order
func (s *Service) Slides(ctx context.Context) ([]content.Slide, error) {
	return s.repo.Slides(ctx)
}

// ReplaceSlides stores exactly the given slides
func (s *Service) ReplaceSlides(ctx context.Context, slides []content.Slide) error {
	return replace(ctx, s, content.KindSlides, slides, s.repo.ReplaceSlides)
}

// Bento returns the bento tiles in stored order
func (s *Service) Bento(ctx context.Context) ([]content.BentoItem, error) {
	return s.repo.Bento(ctx)
}

// ReplaceBento stores exactly the given bento tiles
func (s *Service) ReplaceBento(ctx context.Context, items []content.BentoItem) error {
	return replace(ctx, s, content.KindBento, items, s.repo.ReplaceBento)
}

// Collections returns the collections in stored order
func (s *Service) Collections(ctx context.Context) ([]content.Collection, error) {
	return s.repo.Collections(ctx)
}

// ReplaceCollections stores exactly the given collections
func (s *Service) ReplaceCollections(ctx context.Context, collections []content.Collection) error {
	return replace(ctx, s, content.KindCollections, collections, s.repo.ReplaceCollections)
}

// InfoFeatures returns the info features in stored order
func (s *Service) InfoFeatures(ctx context.Context) ([]content.InfoFeature, error) {
	return s.repo.InfoFeatures(ctx)
}

// ReplaceInfoFeatures stores exactly the given info features
func (s *Service) ReplaceInfoFeatures(ctx context.Context, features []content.InfoFeature) error {
	return replace(ctx, s, content.KindInfoFeatures, features, s.repo.ReplaceInfoFeatures)
}

// Marquee returns the marquee, with no messages when none is stored
func (s *Service) Marquee(ctx context.Context) (*content.Marquee, error) {
	m, err := s.repo.Marquee(ctx)
	if errors.Is(err, shared.ErrNotFound) {
		return &content.Marquee{Messages: []string{}}, nil
	}
	if err != nil {
		return nil, err
	}
	if m.Messages == nil {
		m.Messages = []string{}
	}
	return m, nil
}

// SaveMarquee drops blank messages and stores the marquee
func (s *Service) SaveMarquee(ctx context.Context, m content.Marquee) (*content.Marquee, error) {
	m.Normalize()
	if err := s.repo.SaveMarquee(ctx, &m); err != nil {
		return nil, err
	}
	s.logger.Info("Marquee saved", zap.Int("messages", len(m.Messages)))
	return &m, nil
}

// Settings returns the stored site settings merged with the defaults
func (s *Service) Settings(ctx context.Context) (*content.SiteSettings, error) {
	stored, err := s.repo.SiteSettings(ctx)
	if errors.Is(err, shared.ErrNotFound) {
		settings := s.defaults
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}
	merged := stored.MergeDefaults(s.defaults)
	return &merged, nil
}

// SaveSettings stores the site settings; non-positive values fall back to the defaults
func (s *Service) SaveSettings(ctx context.Context, settings content.SiteSettings) (*content.SiteSettings, error) {
	settings = settings.MergeDefaults(s.defaults)
	if err := s.repo.SaveSiteSettings(ctx, &settings); err != nil {
		return nil, err
	}
	s.logger.Info("Site settings saved", zap.Int("products_per_page", settings.ProductsPerPage))
	return &settings, nil
}

func replace[T content.Item](ctx context.Context, s *Service, kind content.Kind, items []T, store func(context.Context, []T) error) error {
	if items == nil {
		items = []T{}
	}
	if err := content.ValidateItems(kind, items); err != nil {
		return err
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "content", "replace",
		telemetry.SpanAttrCollection, string(kind),
		telemetry.SpanAttrItemCount, len(items))
	defer span.End()

	if err := store(ctx, items); err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	s.logger.Info("Content replaced", zap.String("kind", string(kind)), zap.Int("count", len(items)))
	return nil
}
