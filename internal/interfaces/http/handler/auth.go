package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	identityapp "github.com/grasdvirus/prime-panier/internal/application/identity"
	"github.com/grasdvirus/prime-panier/internal/interfaces/http/dto"
	"github.com/grasdvirus/prime-panier/internal/interfaces/http/middleware"
)

// AuthHandler serves admin sign-in. authService is nil when identities are
// issued by Firebase; only Me is served then.
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *identityapp.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	if h.authService == nil {
		h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, "Connexion par mot de passe désactivée")
		return
	}

	var input identityapp.LoginInput
	if !h.BindJSON(c, &input) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		h.Unauthorized(c, "Authentification requise")
		return
	}
	h.OK(c, gin.H{
		"email":   principal.Email,
		"roles":   principal.Roles,
		"isAdmin": principal.IsAdmin(),
	})
}

// Logout handles POST /api/auth/logout by revoking the current token
func (h *AuthHandler) Logout(c *gin.Context) {
	if h.authService == nil {
		c.JSON(http.StatusOK, dto.Response{Success: true, Message: "Déconnecté"})
		return
	}

	if err := h.authService.Logout(c.Request.Context(), middleware.GetPrincipal(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Response{Success: true, Message: "Déconnecté"})
}
