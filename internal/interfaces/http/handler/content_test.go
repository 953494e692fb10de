package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grasdvirus/prime-panier/internal/domain/content"
)

func setupContentRouter(s *services) *gin.Engine {
	h := NewContentHandler(s.content)
	r := gin.New()
	r.GET("/api/slides/get", h.GetSlides)
	r.GET("/api/bento/get", h.GetBento)
	r.GET("/api/collections/get", h.GetCollections)
	r.GET("/api/info-features/get", h.GetInfoFeatures)
	r.GET("/api/marquee/get", h.GetMarquee)
	r.GET("/api/settings/get", h.GetSettings)
	r.POST("/admin/update-slides", h.UpdateSlides)
	r.POST("/admin/update-bento", h.UpdateBento)
	r.POST("/admin/update-collections", h.UpdateCollections)
	r.POST("/admin/update-info-features", h.UpdateInfoFeatures)
	r.POST("/admin/update-marquee", h.UpdateMarquee)
	r.POST("/admin/update-settings", h.UpdateSettings)
	return r
}

func TestContentHandler_EmptyStore(t *testing.T) {
	r := setupContentRouter(newServices())

	for _, path := range []string{
		"/api/slides/get",
		"/api/bento/get",
		"/api/collections/get",
		"/api/info-features/get",
	} {
		t.Run(path, func(t *testing.T) {
			w := performJSON(r, http.MethodGet, path, nil)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, "[]", w.Body.String())
		})
	}

	w := performJSON(r, http.MethodGet, "/api/marquee/get", nil)
	assert.JSONEq(t, `{"messages":[]}`, w.Body.String())

	w = performJSON(r, http.MethodGet, "/api/settings/get", nil)
	assert.Equal(t, 12, decode[content.SiteSettings](t, w).ProductsPerPage)
}

func TestContentHandler_ReplaceSlides(t *testing.T) {
	r := setupContentRouter(newServices())

	w := performJSON(r, http.MethodPost, "/admin/update-slides", []gin.H{
		{"id": 1, "title": "Nouvelle collection", "image": "/uploads/a.jpg"},
		{"id": "promo", "title": "Soldes", "image": "/uploads/b.jpg"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Slides enregistrés", decode[envelope[any]](t, w).Message)

	slides := decode[[]content.Slide](t, performJSON(r, http.MethodGet, "/api/slides/get", nil))
	require.Len(t, slides, 2)
	assert.Equal(t, "Soldes", slides[1].Title)

	w = performJSON(r, http.MethodPost, "/admin/update-slides", []gin.H{
		{"id": 1, "title": "A"},
		{"id": 1, "title": "B"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, decode[[]content.Slide](t, performJSON(r, http.MethodGet, "/api/slides/get", nil)), 2)
}

func TestContentHandler_MarqueeAndSettings(t *testing.T) {
	r := setupContentRouter(newServices())

	w := performJSON(r, http.MethodPost, "/admin/update-marquee", gin.H{
		"messages": []string{"Livraison offerte dès 50 000 FCFA", "  ", "Paiement à la livraison"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	marquee := decode[content.Marquee](t, performJSON(r, http.MethodGet, "/api/marquee/get", nil))
	assert.Equal(t, []string{"Livraison offerte dès 50 000 FCFA", "Paiement à la livraison"}, marquee.Messages)

	w = performJSON(r, http.MethodPost, "/admin/update-settings", gin.H{"productsPerPage": 0})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 12, decode[envelope[content.SiteSettings]](t, w).Data.ProductsPerPage)

	w = performJSON(r, http.MethodPost, "/admin/update-settings", gin.H{"productsPerPage": 24})
	require.Equal(t, http.StatusOK, w.Code)
	settings := decode[content.SiteSettings](t, performJSON(r, http.MethodGet, "/api/settings/get", nil))
	assert.Equal(t, 24, settings.ProductsPerPage)
}
