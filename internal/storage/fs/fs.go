// Package fs stores media blobs on the local filesystem under a base
// directory, with object keys as relative paths.
package fs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cms-service/internal/storage"
	"cms-service/pkg/apperror"
)

// Config options for the filesystem backend
type Config struct {
	BaseDir string
	BaseURL string
}

type fsBackend struct {
	baseDir string
	baseURL string
}

// NewFSBackend creates a filesystem storage backend rooted at BaseDir
func NewFSBackend(config Config) (storage.Backend, error) {
	if config.BaseDir == "" {
		return nil, fmt.Errorf("base directory is required")
	}
	if err := os.MkdirAll(config.BaseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &fsBackend{
		baseDir: config.BaseDir,
		baseURL: strings.TrimSuffix(config.BaseURL, "/"),
	}, nil
}

func (b *fsBackend) Upload(ctx context.Context, objectKey string, reader io.Reader) error {
	path := filepath.Join(b.baseDir, filepath.FromSlash(objectKey))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create object directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create object file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return fmt.Errorf("failed to write object: %w", err)
	}
	return nil
}

func (b *fsBackend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	path := filepath.Join(b.baseDir, filepath.FromSlash(objectKey))
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperror.NotFound("Media not found")
		}
		return nil, fmt.Errorf("failed to open object: %w", err)
	}
	return file, nil
}

func (b *fsBackend) URL(objectKey string) string {
	return b.baseURL + "/" + objectKey
}

func (b *fsBackend) Delete(ctx context.Context, objectKey string) error {
	path := filepath.Join(b.baseDir, filepath.FromSlash(objectKey))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}
