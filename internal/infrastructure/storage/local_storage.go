// Package storage provides object storage implementations for uploaded files.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/grasdvirus/prime-panier/internal/application/media"
)

var _ media.ObjectStorage = (*LocalObjectStorage)(nil)

// LocalObjectStorage writes files below a directory that is served as static
// content, e.g. ./public served at "/".
type LocalObjectStorage struct {
	root         string
	publicPrefix string
}

// NewLocalObjectStorage creates the root directory if needed
func NewLocalObjectStorage(root, publicPrefix string) (*LocalObjectStorage, error) {
	if root == "" {
		return nil, errors.New("upload directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	if publicPrefix == "" {
		publicPrefix = "/"
	}
	return &LocalObjectStorage{root: root, publicPrefix: publicPrefix}, nil
}

// Put writes the object to a temporary file and renames it into place
func (s *LocalObjectStorage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	target, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("failed to store file: %w", err)
	}

	return s.URL(key), nil
}

// Delete removes a stored file, missing files are ignored
func (s *LocalObjectStorage) Delete(ctx context.Context, key string) error {
	target, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// URL returns the public URL of key
func (s *LocalObjectStorage) URL(key string) string {
	return strings.TrimRight(s.publicPrefix, "/") + "/" + key
}

// resolve maps key below root and refuses keys escaping it
func (s *LocalObjectStorage) resolve(key string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	clean := path.Clean("/" + key)
	if strings.Contains(key, "..") || clean == "/" {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}
