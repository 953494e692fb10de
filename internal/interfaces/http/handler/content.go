package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	contentapp "github.com/grasdvirus/prime-panier/internal/application/content"
	"github.com/grasdvirus/prime-panier/internal/domain/content"
)

var savedMessages = map[content.Kind]string{
	content.KindSlides:       "Slides enregistrés",
	content.KindBento:        "Tuiles enregistrées",
	content.KindCollections:  "Collections enregistrées",
	content.KindInfoFeatures: "Informations enregistrées",
}

// ContentHandler serves homepage content and its admin writes
type ContentHandler struct {
	BaseHandler
	contentService *contentapp.Service
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(contentService *contentapp.Service) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

// GetSlides handles GET /api/slides/get
func (h *ContentHandler) GetSlides(c *gin.Context) {
	respondList(h, c, h.contentService.Slides)
}

// GetBento handles GET /api/bento/get
func (h *ContentHandler) GetBento(c *gin.Context) {
	respondList(h, c, h.contentService.Bento)
}

// GetCollections handles GET /api/collections/get
func (h *ContentHandler) GetCollections(c *gin.Context) {
	respondList(h, c, h.contentService.Collections)
}

// GetInfoFeatures handles GET /api/info-features/get
func (h *ContentHandler) GetInfoFeatures(c *gin.Context) {
	respondList(h, c, h.contentService.InfoFeatures)
}

// UpdateSlides handles POST /admin/update-slides
func (h *ContentHandler) UpdateSlides(c *gin.Context) {
	replaceList(h, c, content.KindSlides, h.contentService.ReplaceSlides)
}

// UpdateBento handles POST /admin/update-bento
func (h *ContentHandler) UpdateBento(c *gin.Context) {
	replaceList(h, c, content.KindBento, h.contentService.ReplaceBento)
}

// UpdateCollections handles POST /admin/update-collections
func (h *ContentHandler) UpdateCollections(c *gin.Context) {
	replaceList(h, c, content.KindCollections, h.contentService.ReplaceCollections)
}

// UpdateInfoFeatures handles POST /admin/update-info-features
func (h *ContentHandler) UpdateInfoFeatures(c *gin.Context) {
	replaceList(h, c, content.KindInfoFeatures, h.contentService.ReplaceInfoFeatures)
}

// GetMarquee handles GET /api/marquee/get
func (h *ContentHandler) GetMarquee(c *gin.Context) {
	marquee, err := h.contentService.Marquee(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, marquee)
}

// UpdateMarquee handles POST /admin/update-marquee
func (h *ContentHandler) UpdateMarquee(c *gin.Context) {
	var marquee content.Marquee
	if !h.BindJSON(c, &marquee) {
		return
	}

	saved, err := h.contentService.SaveMarquee(c.Request.Context(), marquee)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Saved(c, "Bandeau enregistré", saved)
}

// GetSettings handles GET /api/settings/get
func (h *ContentHandler) GetSettings(c *gin.Context) {
	settings, err := h.contentService.Settings(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, settings)
}

// UpdateSettings handles POST /admin/update-settings
func (h *ContentHandler) UpdateSettings(c *gin.Context) {
	var settings content.SiteSettings
	if !h.BindJSON(c, &settings) {
		return
	}

	saved, err := h.contentService.SaveSettings(c.Request.Context(), settings)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Saved(c, "Paramètres enregistrés", saved)
}

func respondList[T any](h *ContentHandler, c *gin.Context, list func(context.Context) ([]T, error)) {
	items, err := list(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if items == nil {
		items = []T{}
	}
	h.OK(c, items)
}

func replaceList[T any](h *ContentHandler, c *gin.Context, kind content.Kind, replace func(context.Context, []T) error) {
	var items []T
	if !h.BindJSON(c, &items) {
		return
	}

	if err := replace(c.Request.Context(), items); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Saved(c, savedMessages[kind], gin.H{"count": len(items)})
}
