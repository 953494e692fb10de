package router

import (
	"github.com/gin-gonic/gin"

	"github.com/grasdvirus/prime-panier/internal/domain/identity"
	"github.com/grasdvirus/prime-panier/internal/interfaces/http/handler"
	"github.com/grasdvirus/prime-panier/internal/interfaces/http/middleware"
)

// Handlers groups every HTTP handler of the shop
type Handlers struct {
	Product       *handler.ProductHandler
	Content       *handler.ContentHandler
	Order         *handler.OrderHandler
	Contact       *handler.ContactHandler
	Upload        *handler.UploadHandler
	Auth          *handler.AuthHandler
	Admin         *handler.AdminHandler
	Notifications *handler.NotificationStreamHandler
	Health        *handler.HealthHandler
}

// Guards are the per-group middlewares. Authenticate is required; the
// others are optional and skipped when nil. Timeout is not applied to the
// notification stream.
type Guards struct {
	Authenticate gin.HandlerFunc
	Timeout      gin.HandlerFunc
	JSONLimit    gin.HandlerFunc
	UploadLimit  gin.HandlerFunc
	LoginLimit   gin.HandlerFunc
}

// Setup registers the storefront API under /api, the back-office under
// /admin and the health check at /health.
func Setup(engine *gin.Engine, h Handlers, g Guards) {
	requireAdmin := middleware.RequireRole(identity.RoleAdmin)

	api := NewRouter(engine, WithBasePath("/api"))
	api.Register(catalogRoutes(h, g))
	api.Register(contentRoutes(h, g))
	api.Register(orderRoutes(h, g, requireAdmin))
	api.Register(contactRoutes(h, g, requireAdmin))
	api.Register(NewDomainGroup("upload", "/upload").
		Use(g.Timeout, g.UploadLimit).
		POST("", g.Authenticate, requireAdmin, h.Upload.Upload))
	api.Register(authRoutes(h, g))
	api.Setup()

	admin := NewRouter(engine, WithBasePath("/admin"))
	admin.Register(adminRoutes(h, g, requireAdmin))
	admin.Setup()

	engine.GET("/health", h.Health.Check)
}

func catalogRoutes(h Handlers, g Guards) *DomainGroup {
	return NewDomainGroup("catalog", "/products").
		Use(g.Timeout, g.JSONLimit).
		GET("/get", h.Product.List).
		GET("/categories", h.Product.Categories).
		GET("/:id", h.Product.GetByID).
		POST("/:id/like", h.Product.Like)
}

func contentRoutes(h Handlers, g Guards) *DomainGroup {
	group := NewDomainGroup("content", "").Use(g.Timeout, g.JSONLimit)
	group.GET("/slides/get", h.Content.GetSlides)
	group.GET("/bento/get", h.Content.GetBento)
	group.GET("/collections/get", h.Content.GetCollections)
	group.GET("/info-features/get", h.Content.GetInfoFeatures)
	group.GET("/marquee/get", h.Content.GetMarquee)
	group.GET("/settings/get", h.Content.GetSettings)
	return group
}

func orderRoutes(h Handlers, g Guards, requireAdmin gin.HandlerFunc) *DomainGroup {
	orders := NewDomainGroup("orders", "/orders").Use(g.Timeout, g.JSONLimit)
	orders.POST("/create", h.Order.Create)

	backOffice := orders.Group("orders-admin", "").Use(g.Authenticate, requireAdmin)
	backOffice.GET("/get", h.Order.List)
	backOffice.GET("/count", h.Order.Count)
	backOffice.POST("/update", h.Order.UpdateStatus)
	backOffice.POST("/delete", h.Order.Delete)
	return orders
}

func contactRoutes(h Handlers, g Guards, requireAdmin gin.HandlerFunc) *DomainGroup {
	group := NewDomainGroup("contact", "").Use(g.Timeout, g.JSONLimit)
	group.POST("/contact", h.Contact.Submit)

	messages := group.Group("messages", "/messages").Use(g.Authenticate, requireAdmin)
	messages.GET("/get", h.Contact.List)
	messages.POST("/read", h.Contact.MarkRead)
	messages.POST("/delete", h.Contact.Delete)
	return group
}

func authRoutes(h Handlers, g Guards) *DomainGroup {
	group := NewDomainGroup("auth", "/auth").Use(g.Timeout, g.JSONLimit)
	group.POST("/login", g.LoginLimit, h.Auth.Login)
	group.GET("/me", g.Authenticate, h.Auth.Me)
	group.POST("/logout", g.Authenticate, h.Auth.Logout)
	return group
}

func adminRoutes(h Handlers, g Guards, requireAdmin gin.HandlerFunc) *DomainGroup {
	group := NewDomainGroup("admin", "").Use(g.Authenticate, requireAdmin)

	writes := group.Group("admin-writes", "").Use(g.Timeout, g.JSONLimit)
	writes.POST("/update-products", h.Product.Replace)
	writes.POST("/update-slides", h.Content.UpdateSlides)
	writes.POST("/update-bento", h.Content.UpdateBento)
	writes.POST("/update-collections", h.Content.UpdateCollections)
	writes.POST("/update-info-features", h.Content.UpdateInfoFeatures)
	writes.POST("/update-marquee", h.Content.UpdateMarquee)
	writes.POST("/update-settings", h.Content.UpdateSettings)
	writes.POST("/update-orders", h.Order.Replace)
	writes.POST("/save-all", h.Admin.SaveAll)

	group.GET("/notifications/stream", h.Notifications.Stream)
	return group
}
