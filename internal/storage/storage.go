// Package storage saves uploaded player photos and returns their public URL.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/codr1/Arena/internal/config"
)

var ErrInvalidKey = errors.New("invalid object key")

// ObjectStore persists an object and reports where it can be fetched.
// Deleting a missing key is not an error.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, key string) error
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// IsAllowedImage reports whether contentType is an accepted photo type.
func IsAllowedImage(contentType string) bool {
	_, ok := imageExtensions[normalizeContentType(contentType)]
	return ok
}

// PlayerPhotoKey builds players/<uuid><ext> for an upload.
func PlayerPhotoKey(contentType string) string {
	ext, ok := imageExtensions[normalizeContentType(contentType)]
	if !ok {
		ext = ".bin"
	}
	return "players/" + uuid.NewString() + ext
}

// NewFromConfig picks the configured store.
func NewFromConfig(ctx context.Context, cfg *config.Config) (ObjectStore, error) {
	switch cfg.Storage.Driver {
	case "local", "":
		return NewLocalStore(cfg.Storage.LocalDir, cfg.Storage.PublicPath)
	case "s3":
		return NewS3Store(ctx, cfg.Storage.S3Bucket, cfg.Storage.S3Region, cfg.Storage.S3PublicURL)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Storage.Driver)
	}
}

func cleanKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" || strings.HasPrefix(key, "/") {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || cleaned != key {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

func normalizeContentType(contentType string) string {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	return contentType
}
