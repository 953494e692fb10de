package content

import "strings"

// Marquee is the scrolling announcement banner
type Marquee struct {
	Messages []string `json:"messages"`
}

// Normalize drops blank messages and trims the rest
func (m *Marquee) Normalize() {
	out := make([]string, 0, len(m.Messages))
	for _, msg := range m.Messages {
		if s := strings.TrimSpace(msg); s != "" {
			out = append(out, s)
		}
	}
	m.Messages = out
}

// DefaultProductsPerPage is used when no setting is stored
const DefaultProductsPerPage = 12

// SiteSettings holds storefront wide settings
type SiteSettings struct {
	ProductsPerPage int `json:"productsPerPage"`
}

// DefaultSiteSettings returns the settings used when nothing is stored
func DefaultSiteSettings(productsPerPage int) SiteSettings {
	if productsPerPage <= 0 {
		productsPerPage = DefaultProductsPerPage
	}
	return SiteSettings{ProductsPerPage: productsPerPage}
}

// MergeDefaults fills unset or invalid fields from defaults
func (s SiteSettings) MergeDefaults(defaults SiteSettings) SiteSettings {
	if s.ProductsPerPage <= 0 {
		s.ProductsPerPage = defaults.ProductsPerPage
	}
	return s
}
