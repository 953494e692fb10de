// Package content holds the homepage content owned by the back-office:
// hero slides, bento tiles, collections, info features, the marquee banner
// and the site settings.
package content

import (
	"fmt"
	"strings"

	"github.com/grasdvirus/prime-panier/internal/domain/shared"
	"github.com/grasdvirus/prime-panier/internal/domain/shared/valueobject"
)

// Kind names a replaceable content collection
type Kind string

const (
	KindSlides       Kind = "slides"
	KindBento        Kind = "bento"
	KindCollections  Kind = "collections"
	KindInfoFeatures Kind = "infoFeatures"
)

// Label returns the French label used in validation messages
func (k Kind) Label() string {
	switch k {
	case KindSlides:
		return "slide"
	case KindBento:
		return "tuile"
	case KindCollections:
		return "collection"
	case KindInfoFeatures:
		return "information"
	default:
		return string(k)
	}
}

// Item is implemented by every record of a replaceable content collection
type Item interface {
	Key() valueobject.FlexID
}

// Slide is a homepage hero carousel entry
type Slide struct {
	ID          valueobject.FlexID `json:"id"`
	Title       string             `json:"title"`
	Subtitle    string             `json:"subtitle,omitempty"`
	Description string             `json:"description,omitempty"`
	Image       string             `json:"image"`
	ButtonText  string             `json:"buttonText,omitempty"`
	Link        string             `json:"link,omitempty"`
}

// Key returns the slide id
func (s Slide) Key() valueobject.FlexID { return s.ID }

// BentoItem is a promotional tile of the homepage grid
type BentoItem struct {
	ID       valueobject.FlexID `json:"id"`
	Title    string             `json:"title"`
	Subtitle string             `json:"subtitle,omitempty"`
	Image    string             `json:"image"`
	Link     string             `json:"link"`
	Size     string             `json:"size,omitempty"`
}

// Key returns the tile id
func (b BentoItem) Key() valueobject.FlexID { return b.ID }

// Collection is a curated product collection teaser
type Collection struct {
	ID          valueobject.FlexID `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Image       string             `json:"image"`
	Link        string             `json:"link"`
}

// Key returns the collection id
func (c Collection) Key() valueobject.FlexID { return c.ID }

// InfoFeature is a reassurance block (delivery, payment on delivery, ...)
type InfoFeature struct {
	ID          valueobject.FlexID `json:"id"`
	Icon        string             `json:"icon,omitempty"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Image       string             `json:"image,omitempty"`
}

// Key returns the feature id
func (f InfoFeature) Key() valueobject.FlexID { return f.ID }

// ValidateItems checks that every id is present and unique within the set
func ValidateItems[T Item](kind Kind, items []T) error {
	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		key := strings.TrimSpace(item.Key().String())
		if key == "" {
			return shared.ErrInvalidInput.WithMessage(
				fmt.Sprintf("%s n°%d : identifiant manquant", kind.Label(), i+1),
			)
		}
		if _, dup := seen[key]; dup {
			return shared.ErrInvalidInput.WithMessage(
				fmt.Sprintf("%s : identifiant en double %q", kind.Label(), key),
			)
		}
		seen[key] = struct{}{}
	}
	return nil
}
