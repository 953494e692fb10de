package content

import "context"

// Repository persists homepage content
type Repository interface {
	Slides(ctx context.Context) ([]Slide, error)
	ReplaceSlides(ctx context.Context, slides []Slide) error

	Bento(ctx context.Context) ([]BentoItem, error)
	ReplaceBento(ctx context.Context, items []BentoItem) error

	Collections(ctx context.Context) ([]Collection, error)
	ReplaceCollections(ctx context.Context, collections []Collection) error

	InfoFeatures(ctx context.Context) ([]InfoFeature, error)
	ReplaceInfoFeatures(ctx context.Context, features []InfoFeature) error

	// Marquee returns shared.ErrNotFound when the banner was never saved
	Marquee(ctx context.Context) (*Marquee, error)
	SaveMarquee(ctx context.Context, m *Marquee) error

	// SiteSettings returns shared.ErrNotFound when settings were never saved
	SiteSettings(ctx context.Context) (*SiteSettings, error)
	SaveSiteSettings(ctx context.Context, s *SiteSettings) error
}
