package firestoreinfra

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/grasdvirus/prime-panier/internal/infrastructure/config"
)

// NewClient opens a Firestore client. Without a credentials file the
// Application Default Credentials are used, and FIRESTORE_EMULATOR_HOST is
// honoured by the SDK.
func NewClient(ctx context.Context, cfg config.FirestoreConfig, log *zap.Logger) (*firestore.Client, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	log.Info("Firestore connected", zap.String("project_id", cfg.ProjectID))
	return client, nil
}
