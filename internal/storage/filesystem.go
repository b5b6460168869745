package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"adjectivemagic/internal/domain"
)

// FileHandle is ownership of one uploaded file's raw bytes.
type FileHandle interface {
	ID() string
	Filename() string
	MIMEType() string
	Size() int64
	Open(ctx context.Context) (io.ReadCloser, error)
}

// BlobStore keeps uploaded photos on the local filesystem for the lifetime of
// the session that selected them. Nothing here survives a restart: the root
// is a scratch directory.
type BlobStore struct {
	basePath string
}

// NewBlobStore initializes a BlobStore rooted at basePath. An empty basePath
// selects a fresh directory under the OS temp dir.
func NewBlobStore(basePath string) (*BlobStore, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		dir, err := os.MkdirTemp("", "adjectivemagic-uploads-")
		if err != nil {
			return nil, fmt.Errorf("storage: create temp dir: %w", err)
		}
		basePath = dir
	}
	if err := os.MkdirAll(basePath, 0o700); err != nil {
		return nil, fmt.Errorf("storage: ensure base path: %w", err)
	}
	return &BlobStore{basePath: basePath}, nil
}

// BasePath returns the configured root directory.
func (s *BlobStore) BasePath() string {
	if s == nil {
		return ""
	}
	return s.basePath
}

// Put persists data under a new random key and returns a handle to it. The
// MIME type is sniffed from the content.
func (s *BlobStore) Put(ctx context.Context, filename string, data []byte) (FileHandle, error) {
	if s == nil {
		return nil, errors.New("storage: no store configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id := uuid.NewString()
	key, err := sanitizeKey(id)
	if err != nil {
		return nil, err
	}
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(key))
	if err := os.WriteFile(fullPath, data, 0o600); err != nil {
		return nil, fmt.Errorf("storage: write file: %w", err)
	}
	return &diskFile{
		id:       id,
		path:     fullPath,
		filename: filename,
		mimeType: http.DetectContentType(data),
		size:     int64(len(data)),
	}, nil
}

// PutReader reads at most limit bytes from r and stores them. Input longer
// than limit fails with ErrTooLarge.
func (s *BlobStore) PutReader(ctx context.Context, filename string, r io.Reader, limit int64) (FileHandle, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("storage: read upload: %w", err)
	}
	if n > limit {
		return nil, ErrTooLarge
	}
	return s.Put(ctx, filename, buf.Bytes())
}

// Delete removes the bytes behind h. Deleting a handle twice is not an error.
func (s *BlobStore) Delete(h FileHandle) error {
	if s == nil || h == nil {
		return nil
	}
	key, err := sanitizeKey(h.ID())
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(s.basePath, filepath.FromSlash(key)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage: delete file: %w", err)
	}
	return nil
}

// RemoveAll drops the whole scratch directory.
func (s *BlobStore) RemoveAll() error {
	if s == nil {
		return nil
	}
	return os.RemoveAll(s.basePath)
}

// ErrTooLarge is returned by PutReader when the upload exceeds its limit.
var ErrTooLarge = domain.ErrUploadTooLarge

type diskFile struct {
	id       string
	path     string
	filename string
	mimeType string
	size     int64
}

func (f *diskFile) ID() string       { return f.id }
func (f *diskFile) Filename() string { return f.filename }
func (f *diskFile) MIMEType() string { return f.mimeType }
func (f *diskFile) Size() int64      { return f.size }

func (f *diskFile) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Open(f.path)
}

// sanitizeKey normalizes a key and prevents escaping the storage root.
func sanitizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("storage: key is required")
	}
	key = strings.ReplaceAll(key, "\\", "/")
	key = strings.TrimPrefix(key, "./")
	key = strings.TrimLeft(key, "/")
	cleaned := filepath.Clean(key)
	cleaned = strings.ReplaceAll(cleaned, "\\", "/")
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", errors.New("storage: invalid key")
	}
	return cleaned, nil
}
