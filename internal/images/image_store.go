// Package images stores uploaded product images in a blob store.
package images

import (
	"context"
	"io"
)

// ImageStore defines the interface for the blob store holding product images.
type ImageStore interface {
	// Upload writes body under key with the given content type.
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error
	// URL returns the public address of key.
	URL(key string) string
}
