package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/grasdvirus/prime-panier/internal/domain/identity"
	"github.com/grasdvirus/prime-panier/internal/infrastructure/config"
)

// Claims represents custom JWT claims
type Claims struct {
	jwt.RegisteredClaims
	Email string   `json:"email"`
	Roles []string `json:"roles,omitempty"`
}

// Token is a signed access token
type Token struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	TokenType   string    `json:"token_type"` // Bearer
}

// JWTService issues and verifies HS256 admin session tokens
type JWTService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
	blacklist  TokenBlacklist
	now        func() time.Time
}

// JWTOption configures a JWTService
type JWTOption func(*JWTService)

// WithBlacklist enables revocation checks on Verify
func WithBlacklist(blacklist TokenBlacklist) JWTOption {
	return func(s *JWTService) {
		s.blacklist = blacklist
	}
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.AuthConfig, opts ...JWTOption) *JWTService {
	s := &JWTService{
		secret:     []byte(cfg.JWTSecret),
		expiration: cfg.TokenExpiration,
		issuer:     cfg.Issuer,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateToken signs a token for principal
func (s *JWTService) GenerateToken(principal identity.Principal) (*Token, error) {
	now := s.now()
	expiresAt := now.Add(s.expiration)

	roles := make([]string, len(principal.Roles))
	for i, r := range principal.Roles {
		roles[i] = string(r)
	}

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   principal.Subject,
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email: principal.Email,
		Roles: roles,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &Token{
		AccessToken: signed,
		ExpiresAt:   expiresAt,
		TokenType:   "Bearer",
	}, nil
}

// ValidateToken parses and validates a token and returns its claims
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.Subject == "" || claims.Email == "" {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// Verify implements TokenVerifier
func (s *JWTService) Verify(ctx context.Context, tokenString string) (*identity.Principal, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	if s.blacklist != nil && claims.ID != "" {
		revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}

	roles := make([]identity.Role, len(claims.Roles))
	for i, r := range claims.Roles {
		roles[i] = identity.Role(r)
	}

	principal := &identity.Principal{
		Subject: claims.Subject,
		Email:   claims.Email,
		Roles:   roles,
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		principal.ExpiresAt = claims.ExpiresAt.Time
	}
	return principal, nil
}

// Revoke blacklists the token a principal was verified from until it expires
func (s *JWTService) Revoke(ctx context.Context, principal *identity.Principal) error {
	if s.blacklist == nil || principal == nil || principal.TokenID == "" {
		return nil
	}
	ttl := principal.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.blacklist.AddToBlacklist(ctx, principal.TokenID, ttl)
}

// Expiration returns the token lifetime
func (s *JWTService) Expiration() time.Duration {
	return s.expiration
}

var _ TokenVerifier = (*JWTService)(nil)
