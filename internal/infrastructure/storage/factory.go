package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/grasdvirus/prime-panier/internal/application/media"
	infraconfig "github.com/grasdvirus/prime-panier/internal/infrastructure/config"
)

// NewObjectStorage builds the backend selected by uploads.driver
func NewObjectStorage(ctx context.Context, cfg *infraconfig.UploadConfig, logger *zap.Logger) (media.ObjectStorage, error) {
	switch cfg.Driver {
	case infraconfig.UploadLocal, "":
		logger.Info("Uploads stored on local disk", zap.String("dir", cfg.LocalDir))
		return NewLocalObjectStorage(cfg.LocalDir, cfg.PublicPrefix)
	case infraconfig.UploadS3:
		s, err := NewS3ObjectStorage(cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			logger.Warn("Could not verify upload bucket", zap.String("bucket", cfg.Bucket), zap.Error(err))
		}
		logger.Info("Uploads stored in S3", zap.String("bucket", cfg.Bucket))
		return s, nil
	case infraconfig.UploadGCS:
		logger.Info("Uploads stored in GCS", zap.String("bucket", cfg.Bucket))
		return NewGCSObjectStorage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown upload driver %q", cfg.Driver)
	}
}
