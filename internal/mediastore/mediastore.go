package mediastore

import (
	"context"
	"errors"
	"io"
)

// URLPrefix is the path under which stored media is served. Entity fileUrl
// and url fields hold URLPrefix + storage key for stored content.
const URLPrefix = "/media/"

var ErrNotFound = errors.New("media not found")

// MediaStore holds binary proof and mood board content.
type MediaStore interface {
	Save(ctx context.Context, prefix, mimeType string, r io.Reader) (storageKey string, err error)
	Get(ctx context.Context, storageKey string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, storageKey string) error
}

// URL returns the handle recorded on entities for storageKey.
func URL(storageKey string) string {
	return URLPrefix + storageKey
}

// KeyFromURL extracts the storage key from a handle produced by URL. It
// reports false for external URLs.
func KeyFromURL(url string) (string, bool) {
	if len(url) <= len(URLPrefix) || url[:len(URLPrefix)] != URLPrefix {
		return "", false
	}
	return url[len(URLPrefix):], true
}
