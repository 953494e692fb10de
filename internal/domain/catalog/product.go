package catalog

import (
	"fmt"
	"strings"

	"github.com/grasdvirus/prime-panier/internal/domain/shared"
	"github.com/grasdvirus/prime-panier/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry managed from the back-office.
// Rating is derived from Reviews and recomputed by Normalize on every save.
type Product struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Rating      float64  `json:"rating"`
	Stock       int      `json:"stock"`
	Reviews     []Review `json:"reviews"`
	Images      []string `json:"images"`
	Features    []string `json:"features"`
	Likes       int64    `json:"likes"`
}

// Review is a customer review attached to a product
type Review struct {
	ID      valueobject.FlexID `json:"id"`
	Author  string             `json:"author"`
	Rating  int                `json:"rating"`
	Comment string             `json:"comment"`
	Date    string             `json:"date"`
}

// ReviewCount returns the number of reviews, used as the popularity measure
func (p *Product) ReviewCount() int {
	return len(p.Reviews)
}

// Normalize prepares a product for persistence: blank image URLs are removed
// and the rating is recomputed from the reviews.
func (p *Product) Normalize() {
	images := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		if s := strings.TrimSpace(img); s != "" {
			images = append(images, s)
		}
	}
	p.Images = images

	if p.Reviews == nil {
		p.Reviews = []Review{}
	}
	if p.Features == nil {
		p.Features = []string{}
	}
	p.Rating = AverageRating(p.Reviews)
}

// Validate checks the product invariants
func (p *Product) Validate() error {
	if p.ID <= 0 {
		return invalid("l'identifiant du produit doit être un entier positif")
	}
	if strings.TrimSpace(p.Name) == "" {
		return invalid(fmt.Sprintf("produit %d : le nom est obligatoire", p.ID))
	}
	if p.Price <= 0 {
		return invalid(fmt.Sprintf("produit %d : le prix doit être positif", p.ID))
	}
	if p.Stock < 0 {
		return invalid(fmt.Sprintf("produit %d : le stock ne peut pas être négatif", p.ID))
	}
	if p.Likes < 0 {
		return invalid(fmt.Sprintf("produit %d : le nombre de likes ne peut pas être négatif", p.ID))
	}
	for _, r := range p.Reviews {
		if r.Rating < 1 || r.Rating > 5 {
			return invalid(fmt.Sprintf("produit %d : une note d'avis doit être comprise entre 1 et 5", p.ID))
		}
	}
	return nil
}

// AverageRating returns the mean review rating rounded to one decimal place,
// or 0 when there are no reviews.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := decimal.Zero
	for _, r := range reviews {
		sum = sum.Add(decimal.NewFromInt(int64(r.Rating)))
	}
	return sum.Div(decimal.NewFromInt(int64(len(reviews)))).Round(1).InexactFloat64()
}

// ValidateSet validates every product and checks id uniqueness across the set
func ValidateSet(products []Product) error {
	seen := make(map[int64]struct{}, len(products))
	for i := range products {
		if err := products[i].Validate(); err != nil {
			return err
		}
		if _, dup := seen[products[i].ID]; dup {
			return invalid(fmt.Sprintf("identifiant de produit en double : %d", products[i].ID))
		}
		seen[products[i].ID] = struct{}{}
	}
	return nil
}

func invalid(message string) error {
	return shared.ErrInvalidInput.WithMessage(message)
}
