package auth

import (
	"context"
	"errors"

	"github.com/grasdvirus/prime-panier/internal/domain/identity"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrTokenRevoked     = errors.New("token has been revoked")
)

// TokenVerifier turns a bearer token into a verified principal
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*identity.Principal, error)
}
