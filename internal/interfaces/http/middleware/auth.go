package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/grasdvirus/prime-panier/internal/domain/identity"
	"github.com/grasdvirus/prime-panier/internal/domain/shared"
	"github.com/grasdvirus/prime-panier/internal/infrastructure/auth"
	"github.com/grasdvirus/prime-panier/internal/infrastructure/logger"
	"github.com/grasdvirus/prime-panier/internal/interfaces/http/dto"
)

// Auth context keys
const (
	PrincipalKey  = "principal"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// AuthConfig holds configuration for the authentication middleware
type AuthConfig struct {
	Verifier auth.TokenVerifier
	// Optional requests pass through without a token; a present but
	// invalid token is still rejected.
	Optional bool
	Logger   *zap.Logger
}

// Authenticate requires a valid bearer token and stores the principal
func Authenticate(verifier auth.TokenVerifier, log *zap.Logger) gin.HandlerFunc {
	return AuthenticateWithConfig(AuthConfig{Verifier: verifier, Logger: log})
}

// AuthenticateWithConfig creates the authentication middleware with custom config
func AuthenticateWithConfig(cfg AuthConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			if cfg.Optional {
				c.Next()
				return
			}
			abortUnauthorized(c, cfg, auth.ErrInvalidToken, "Missing authorization header")
			return
		}

		if !strings.HasPrefix(authHeader, BearerPrefix) {
			abortUnauthorized(c, cfg, auth.ErrInvalidToken, "Invalid authorization header format")
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerPrefix))
		if tokenString == "" {
			abortUnauthorized(c, cfg, auth.ErrInvalidToken, "Missing token")
			return
		}

		principal, err := cfg.Verifier.Verify(c.Request.Context(), tokenString)
		if err != nil {
			abortUnauthorized(c, cfg, err, "Token verification failed")
			return
		}

		c.Set(PrincipalKey, principal)
		c.Request = c.Request.WithContext(logger.WithActor(c.Request.Context(), principal.Email))
		c.Next()
	}
}

// RequireRole rejects callers without a principal (401) or without role (403)
func RequireRole(role identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := GetPrincipal(c)
		if principal == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeUnauthorized, shared.ErrUnauthorized.Message, GetRequestID(c)))
			return
		}
		if !principal.HasRole(role) {
			logger.L(c.Request.Context()).Warn("Access denied",
				zap.String("email", principal.Email),
				zap.String("required_role", string(role)),
				zap.String("path", c.Request.URL.Path),
			)
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeForbidden, shared.ErrForbidden.Message, GetRequestID(c)))
			return
		}
		c.Next()
	}
}

// GetPrincipal returns the authenticated caller, or nil
func GetPrincipal(c *gin.Context) *identity.Principal {
	if v, ok := c.Get(PrincipalKey); ok {
		if p, ok := v.(*identity.Principal); ok {
			return p
		}
	}
	return nil
}

func abortUnauthorized(c *gin.Context, cfg AuthConfig, err error, reason string) {
	cfg.Logger.Warn("Authentication failed",
		zap.Error(err),
		zap.String("reason", reason),
		zap.String("path", c.Request.URL.Path),
	)

	code := dto.ErrCodeUnauthorized
	message := "Authentification requise"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code = dto.ErrCodeTokenExpired
		message = "Session expirée, veuillez vous reconnecter"
	case errors.Is(err, auth.ErrTokenRevoked):
		code = dto.ErrCodeTokenRevoked
		message = "Session fermée, veuillez vous reconnecter"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidClaims):
		code = dto.ErrCodeTokenInvalid
		message = "Jeton invalide"
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}
