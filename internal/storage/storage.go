// Package storage persists uploaded media bytes. The CMS core only records
// the metadata a backend hands back; backends are interchangeable behind
// this interface.
package storage

import (
	"context"
	"io"
)

// Backend defines the interface for media blob storage backends
type Backend interface {
	// Upload stores the bytes under the object key
	Upload(ctx context.Context, objectKey string, reader io.Reader) error

	// Download retrieves the bytes stored under the object key
	Download(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// URL returns the address the object can be fetched from
	URL(objectKey string) string

	// Delete removes the object
	Delete(ctx context.Context, objectKey string) error
}
