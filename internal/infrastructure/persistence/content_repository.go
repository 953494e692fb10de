package persistence

import (
	"context"

	"github.com/grasdvirus/prime-panier/internal/domain/content"
)

// ContentRepository implements content.Repository. List content lives in one
// collection per kind, the marquee and the settings are single documents of
// the site collection.
type ContentRepository struct {
	slides       *Collection[content.Slide]
	bento        *Collection[content.BentoItem]
	collections  *Collection[content.Collection]
	infoFeatures *Collection[content.InfoFeature]
	marquee      *Collection[content.Marquee]
	settings     *Collection[content.SiteSettings]
}

// NewContentRepository creates a new ContentRepository
func NewContentRepository(store DocumentStore) *ContentRepository {
	return &ContentRepository{
		slides:       NewCollection[content.Slide](store, CollectionSlides),
		bento:        NewCollection[content.BentoItem](store, CollectionBento),
		collections:  NewCollection[content.Collection](store, CollectionCollections),
		infoFeatures: NewCollection[content.InfoFeature](store, CollectionInfoFeatures),
		marquee:      NewCollection[content.Marquee](store, CollectionSite),
		settings:     NewCollection[content.SiteSettings](store, CollectionSite),
	}
}

func (r *ContentRepository) Slides(ctx context.Context) ([]content.Slide, error) {
	return r.slides.All(ctx)
}

func (r *ContentRepository) ReplaceSlides(ctx context.Context, slides []content.Slide) error {
	return r.slides.ReplaceAll(ctx, slides, itemKey[content.Slide])
}

func (r *ContentRepository) Bento(ctx context.Context) ([]content.BentoItem, error) {
	return r.bento.All(ctx)
}

func (r *ContentRepository) ReplaceBento(ctx context.Context, items []content.BentoItem) error {
	return r.bento.ReplaceAll(ctx, items, itemKey[content.BentoItem])
}

func (r *ContentRepository) Collections(ctx context.Context) ([]content.Collection, error) {
	return r.collections.All(ctx)
}

func (r *ContentRepository) ReplaceCollections(ctx context.Context, collections []content.Collection) error {
	return r.collections.ReplaceAll(ctx, collections, itemKey[content.Collection])
}

func (r *ContentRepository) InfoFeatures(ctx context.Context) ([]content.InfoFeature, error) {
	return r.infoFeatures.All(ctx)
}

func (r *ContentRepository) ReplaceInfoFeatures(ctx context.Context, features []content.InfoFeature) error {
	return r.infoFeatures.ReplaceAll(ctx, features, itemKey[content.InfoFeature])
}

func (r *ContentRepository) Marquee(ctx context.Context) (*content.Marquee, error) {
	return r.marquee.Get(ctx, DocMarquee)
}

func (r *ContentRepository) SaveMarquee(ctx context.Context, m *content.Marquee) error {
	return r.marquee.Put(ctx, DocMarquee, m)
}

func (r *ContentRepository) SiteSettings(ctx context.Context) (*content.SiteSettings, error) {
	return r.settings.Get(ctx, DocSiteSettings)
}

func (r *ContentRepository) SaveSiteSettings(ctx context.Context, s *content.SiteSettings) error {
	return r.settings.Put(ctx, DocSiteSettings, s)
}

func itemKey[T content.Item](item T) string {
	return item.Key().String()
}

var _ content.Repository = (*ContentRepository)(nil)
