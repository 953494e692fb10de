// Package identity authenticates back-office administrators.
package identity

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/grasdvirus/prime-panier/internal/domain/identity"
	"github.com/grasdvirus/prime-panier/internal/domain/shared"
	"github.com/grasdvirus/prime-panier/internal/infrastructure/auth"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for any unknown email or wrong password
var ErrInvalidCredentials = shared.ErrUnauthorized.WithMessage("Email ou mot de passe incorrect")

// ErrAccountLocked is returned after too many failed attempts
var ErrAccountLocked = shared.NewDomainError("ACCOUNT_LOCKED", "Trop de tentatives, réessayez plus tard")

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	MaxLoginAttempts int           // failed attempts before the email is locked
	LockDuration     time.Duration // how long the lock lasts
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
	}
}

// LoginInput is the login form
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResult is returned on successful login
type LoginResult struct {
	Token     *auth.Token         `json:"token"`
	Principal *identity.Principal `json:"user"`
}

type loginAttempts struct {
	failures    int
	lockedUntil time.Time
}

// AuthService signs in administrators with the shared admin password and
// issues JWTs carrying the admin role.
type AuthService struct {
	directory    *identity.AdminDirectory
	passwordHash []byte
	jwtService   *auth.JWTService
	config       AuthServiceConfig
	logger       *zap.Logger

	mu       sync.Mutex
	attempts map[string]*loginAttempts
	now      func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(
	directory *identity.AdminDirectory,
	passwordHash string,
	jwtService *auth.JWTService,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		directory:    directory,
		passwordHash: []byte(passwordHash),
		jwtService:   jwtService,
		config:       config,
		logger:       logger,
		attempts:     make(map[string]*loginAttempts),
		now:          time.Now,
	}
}

// Login checks the email against the admin directory and the password
// against the configured bcrypt hash.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if s.isLocked(email) {
		s.logger.Warn("Login attempt for locked email", zap.String("email", email))
		return nil, ErrAccountLocked
	}

	if !s.directory.IsAdmin(email) || len(s.passwordHash) == 0 ||
		bcrypt.CompareHashAndPassword(s.passwordHash, []byte(input.Password)) != nil {
		s.recordFailure(email)
		s.logger.Warn("Failed login attempt", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}
	s.clearFailures(email)

	principal := identity.Principal{
		Subject: email,
		Email:   email,
		Roles:   s.directory.RolesFor(email),
	}
	token, err := s.jwtService.GenerateToken(principal)
	if err != nil {
		return nil, err
	}
	principal.ExpiresAt = token.ExpiresAt

	s.logger.Info("Administrator logged in", zap.String("email", email))
	return &LoginResult{Token: token, Principal: &principal}, nil
}

// Logout revokes the token the principal was authenticated with
func (s *AuthService) Logout(ctx context.Context, principal *identity.Principal) error {
	if principal == nil {
		return shared.ErrUnauthorized
	}
	if err := s.jwtService.Revoke(ctx, principal); err != nil {
		return err
	}
	s.logger.Info("Administrator logged out", zap.String("email", principal.Email))
	return nil
}

func (s *AuthService) isLocked(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attempts[email]
	return ok && s.now().Before(a.lockedUntil)
}

func (s *AuthService) recordFailure(email string) {
	if s.config.MaxLoginAttempts <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.attempts[email]
	if !ok {
		a = &loginAttempts{}
		s.attempts[email] = a
	}
	a.failures++
	if a.failures >= s.config.MaxLoginAttempts {
		a.failures = 0
		a.lockedUntil = s.now().Add(s.config.LockDuration)
	}
}

func (s *AuthService) clearFailures(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attempts, email)
}
