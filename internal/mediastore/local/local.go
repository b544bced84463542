package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/h00x7r/Media-Flow/internal/mediastore"
)

var unsafePrefixChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// extensions maps each stored MIME type to the file suffix that encodes it.
// Content of any other type is stored as JPEG.
var extensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// LocalMediaStore keeps media as flat files under a single directory. All
// access goes through an os.Root so keys cannot escape it.
type LocalMediaStore struct {
	root   *os.Root
	logger *slog.Logger
}

func NewLocalMediaStore(basePath string) (*LocalMediaStore, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	root, err := os.OpenRoot(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open media directory: %w", err)
	}
	return &LocalMediaStore{root: root, logger: slog.Default().With("component", "mediastore")}, nil
}

func (s *LocalMediaStore) Close() error {
	return s.root.Close()
}

// Save streams r into a temporary file and renames it into place, so a
// partially written upload never becomes visible under its key.
func (s *LocalMediaStore) Save(ctx context.Context, prefix, mimeType string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext, ok := extensions[mimeType]
	if !ok {
		ext = extensions["image/jpeg"]
	}
	key := unsafePrefixChars.ReplaceAllString(prefix, "_") + "_" + uuid.NewString() + ext
	tmp := "." + key + ".part"

	f, err := s.root.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	_, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		s.discard(tmp)
		return "", fmt.Errorf("failed to write media %s: %w", key, err)
	}

	if err := s.rename(tmp, key); err != nil {
		s.discard(tmp)
		return "", fmt.Errorf("failed to store media %s: %w", key, err)
	}
	return key, nil
}

func (s *LocalMediaStore) Get(ctx context.Context, storageKey string) (io.ReadCloser, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	if !servableKey(storageKey) {
		return nil, "", mediastore.ErrNotFound
	}

	f, err := s.root.Open(storageKey)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", mediastore.ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to open media %s: %w", storageKey, err)
	}
	return f, mimeTypeOf(storageKey), nil
}

func (s *LocalMediaStore) Delete(ctx context.Context, storageKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !servableKey(storageKey) {
		return mediastore.ErrNotFound
	}

	if err := s.root.Remove(storageKey); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return mediastore.ErrNotFound
		}
		return fmt.Errorf("failed to delete media %s: %w", storageKey, err)
	}
	return nil
}

// rename moves a file within the root directory. Both names are plain file
// names; os.Root gains Rename only in Go 1.25.
func (s *LocalMediaStore) rename(from, to string) error {
	dir := s.root.Name()
	return os.Rename(filepath.Join(dir, from), filepath.Join(dir, to))
}

func (s *LocalMediaStore) discard(name string) {
	if err := s.root.Remove(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Error("failed to remove partial media file", "file", name, "error", err)
	}
}

// servableKey reports whether storageKey has the shape Save produces. Hidden
// names are in-progress writes and are never served or deleted by key.
func servableKey(storageKey string) bool {
	return storageKey != "" &&
		!strings.HasPrefix(storageKey, ".") &&
		!strings.ContainsAny(storageKey, `/\`)
}

func mimeTypeOf(storageKey string) string {
	ext := strings.ToLower(filepath.Ext(storageKey))
	for mimeType, e := range extensions {
		if e == ext {
			return mimeType
		}
	}
	return "image/jpeg"
}
