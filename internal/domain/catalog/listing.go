package catalog

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SortOrder selects how a product listing is ordered
type SortOrder string

const (
	SortNone       SortOrder = ""
	SortPopularity SortOrder = "popularity"
	SortPriceAsc   SortOrder = "price_asc"
	SortPriceDesc  SortOrder = "price_desc"
)

// ParseSortOrder maps the query parameter values used by the storefront
// onto a SortOrder. Unknown values keep the stored order.
func ParseSortOrder(s string) SortOrder {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "popularity", "popular", "populaire":
		return SortPopularity
	case "price_asc", "price-asc", "prix-croissant":
		return SortPriceAsc
	case "price_desc", "price-desc", "prix-decroissant":
		return SortPriceDesc
	default:
		return SortNone
	}
}

// ProductFilter describes an in-memory listing over the full product set
type ProductFilter struct {
	Category string
	Query    string
	Sort     SortOrder
}

// Apply filters and sorts products. The input slice is not modified.
func (f ProductFilter) Apply(products []Product) []Product {
	out := make([]Product, 0, len(products))
	query := Fold(f.Query)
	for _, p := range products {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if query != "" && !matches(p, query) {
			continue
		}
		out = append(out, p)
	}

	switch f.Sort {
	case SortPopularity:
		sort.SliceStable(out, func(i, j int) bool { return out[i].ReviewCount() > out[j].ReviewCount() })
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	}
	return out
}

// Categories returns the distinct non-blank categories in first-seen order
func Categories(products []Product) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, p := range products {
		c := strings.TrimSpace(p.Category)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

func matches(p Product, foldedQuery string) bool {
	return strings.Contains(Fold(p.Name), foldedQuery) ||
		strings.Contains(Fold(p.Description), foldedQuery) ||
		strings.Contains(Fold(p.Category), foldedQuery)
}

// Fold lower-cases s and strips diacritics so that "Écharpe" matches "echarpe"
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}
