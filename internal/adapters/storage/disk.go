// internal/adapters/storage/disk.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/stockroomhq/stockroom-be/internal/core/domain"
	"github.com/stockroomhq/stockroom-be/internal/core/ports"
)

// DiskPhotoStore implements ports.PhotoStore on top of a local cache
// directory. Filenames are generated UUIDs so concurrent saves never
// collide.
type DiskPhotoStore struct {
	dir    string
	logger *slog.Logger
}

var _ ports.PhotoStore = (*DiskPhotoStore)(nil)

// NewDiskPhotoStore creates a photo store rooted at dir. The directory must
// already exist; startup creates it and aborts when it cannot.
func NewDiskPhotoStore(dir string, logger *slog.Logger) (*DiskPhotoStore, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("cache directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("cache path %s is not a directory", dir)
	}

	return &DiskPhotoStore{
		dir:    dir,
		logger: logger.With(slog.String("storage", "disk")),
	}, nil
}

// Save persists the upload under a freshly generated filename and returns
// that filename.
func (s *DiskPhotoStore) Save(ctx context.Context, r io.Reader, ext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("save photo: %w", err)
	}

	filename := uuid.New().String() + sanitizeExt(ext)
	path := filepath.Join(s.dir, filename)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create photo file: %w", err)
	}

	written, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		// Partial writes are unusable; remove the file before failing.
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to write photo file: %w", err)
	}

	s.logger.DebugContext(ctx, "photo saved",
		slog.String("filename", filename),
		slog.Int64("bytes", written))

	return filename, nil
}

// Read returns the raw bytes of a stored photo.
func (s *DiskPhotoStore) Read(ctx context.Context, filename string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("read photo: %w", err)
	}

	data, err := os.ReadFile(s.path(filename))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrPhotoNotFound, filename)
		}
		return nil, fmt.Errorf("failed to read photo file: %w", err)
	}

	return data, nil
}

// Delete removes a stored photo file.
func (s *DiskPhotoStore) Delete(ctx context.Context, filename string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}

	if err := os.Remove(s.path(filename)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", domain.ErrPhotoNotFound, filename)
		}
		return fmt.Errorf("failed to delete photo file: %w", err)
	}

	s.logger.DebugContext(ctx, "photo deleted", slog.String("filename", filename))
	return nil
}

// path resolves a stored filename inside the cache directory. Only the base
// component is honored so a reference can never escape the cache.
func (s *DiskPhotoStore) path(filename string) string {
	return filepath.Join(s.dir, filepath.Base(filename))
}

// sanitizeExt keeps a short, plain extension from the original upload name
// and drops anything suspicious.
func sanitizeExt(ext string) string {
	ext = strings.ToLower(filepath.Ext("x" + ext))
	if len(ext) > 8 {
		return ""
	}
	for _, r := range ext[min(len(ext), 1):] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
