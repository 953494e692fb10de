package auth

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/grasdvirus/prime-panier/internal/domain/identity"
	"github.com/grasdvirus/prime-panier/internal/infrastructure/config"
)

// AdminClaim is the Firebase custom claim that grants the admin role
const AdminClaim = "admin"

// IDTokenVerifier is the part of the Firebase auth client used here
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// FirebaseVerifier verifies Firebase ID tokens issued to the storefront's
// sign-in flow. The admin role comes from the custom claim or the admin list.
type FirebaseVerifier struct {
	client    IDTokenVerifier
	directory *identity.AdminDirectory
}

// NewFirebaseApp initializes the Firebase app from configuration
func NewFirebaseApp(ctx context.Context, cfg config.AuthConfig) (*firebase.App, error) {
	var opts []option.ClientOption
	if cfg.FirebaseCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	return app, nil
}

// NewFirebaseVerifierFromApp builds a verifier on the app's auth client
func NewFirebaseVerifierFromApp(ctx context.Context, app *firebase.App, directory *identity.AdminDirectory) (*FirebaseVerifier, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create firebase auth client: %w", err)
	}
	return NewFirebaseVerifier(client, directory), nil
}

// NewFirebaseVerifier creates a verifier on any IDTokenVerifier
func NewFirebaseVerifier(client IDTokenVerifier, directory *identity.AdminDirectory) *FirebaseVerifier {
	return &FirebaseVerifier{client: client, directory: directory}
}

// Verify implements TokenVerifier
func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*identity.Principal, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		if fbauth.IsIDTokenExpired(err) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	email, _ := token.Claims["email"].(string)
	principal := &identity.Principal{
		Subject: token.UID,
		Email:   email,
		Roles:   []identity.Role{},
	}

	isAdmin, _ := token.Claims[AdminClaim].(bool)
	verified, _ := token.Claims["email_verified"].(bool)
	if isAdmin || (verified && v.directory.IsAdmin(email)) {
		principal.Roles = append(principal.Roles, identity.RoleAdmin)
	}
	return principal, nil
}

var _ TokenVerifier = (*FirebaseVerifier)(nil)
