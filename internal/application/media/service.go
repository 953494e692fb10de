package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/grasdvirus/prime-panier/internal/domain/shared"
)

// sniffLen is the number of leading bytes inspected to detect the file type
const sniffLen = 3072

// ObjectStorage defines the interface for storing uploaded files.
// Implemented by the infrastructure layer (local disk, S3, GCS).
type ObjectStorage interface {
	// Put stores body under key and returns the public URL of the object
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)

	// Delete removes an object
	Delete(ctx context.Context, key string) error
}

// UploadConfig holds the upload acceptance rules
type UploadConfig struct {
	MaxSize      int64
	AllowedTypes []string
}

// UploadInput describes one received file
type UploadInput struct {
	Filename string
	Size     int64
	Body     io.Reader
}

// UploadResult describes a stored file
type UploadResult struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// UploadService relays files to the configured object storage
type UploadService struct {
	storage ObjectStorage
	config  UploadConfig
	allowed map[string]bool
	logger  *zap.Logger
	now     func() time.Time
}

// NewUploadService creates a new UploadService
func NewUploadService(storage ObjectStorage, config UploadConfig, logger *zap.Logger) *UploadService {
	allowed := make(map[string]bool, len(config.AllowedTypes))
	for _, t := range config.AllowedTypes {
		allowed[strings.ToLower(strings.TrimSpace(t))] = true
	}
	return &UploadService{
		storage: storage,
		config:  config,
		allowed: allowed,
		logger:  logger,
		now:     time.Now,
	}
}

// Upload checks the file and stores it under uploads/<yyyy>/<mm>/<uuid><ext>.
// The content type is detected from the bytes, not from the client header.
func (s *UploadService) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	if in.Body == nil || in.Size == 0 {
		return nil, shared.ErrInvalidInput.WithMessage("Aucun fichier reçu")
	}
	if s.config.MaxSize > 0 && in.Size > s.config.MaxSize {
		return nil, shared.ErrInvalidInput.WithMessage(
			fmt.Sprintf("Fichier trop volumineux (maximum %d Mo)", s.config.MaxSize/(1<<20)),
		)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(in.Body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	mtype := mimetype.Detect(head)
	contentType := strings.SplitN(mtype.String(), ";", 2)[0]
	if !s.allowed[contentType] {
		return nil, shared.ErrInvalidInput.WithMessage("Type de fichier non autorisé")
	}

	now := s.now().UTC()
	key := fmt.Sprintf("uploads/%04d/%02d/%s%s", now.Year(), int(now.Month()), uuid.New().String(), mtype.Extension())
	body := io.MultiReader(bytes.NewReader(head), in.Body)

	url, err := s.storage.Put(ctx, key, body, in.Size, contentType)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	s.logger.Info("file uploaded",
		zap.String("key", key),
		zap.String("filename", in.Filename),
		zap.String("content_type", contentType),
		zap.Int64("size", in.Size),
	)

	return &UploadResult{URL: url, Key: key, ContentType: contentType, Size: in.Size}, nil
}
