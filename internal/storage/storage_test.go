package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adjectivemagic/internal/domain"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type failingHandle struct {
	err error
}

func (f failingHandle) ID() string       { return "failing" }
func (f failingHandle) Filename() string { return "broken.jpg" }
func (f failingHandle) MIMEType() string { return "image/jpeg" }
func (f failingHandle) Size() int64      { return 0 }
func (f failingHandle) Open(context.Context) (io.ReadCloser, error) {
	return nil, f.err
}

func newStore(t *testing.T) *BlobStore {
	t.Helper()
	s, err := NewBlobStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestBlobStorePutAndOpen(t *testing.T) {
	s := newStore(t)
	h, err := s.Put(context.Background(), "photo_of_john.png", pngHeader)
	require.NoError(t, err)

	assert.Equal(t, "photo_of_john.png", h.Filename())
	assert.Equal(t, "image/png", h.MIMEType())
	assert.Equal(t, int64(len(pngHeader)), h.Size())

	rc, err := h.Open(context.Background())
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, got)
}

func TestBlobStoreDeleteIsIdempotent(t *testing.T) {
	s := newStore(t)
	h, err := s.Put(context.Background(), "a.png", pngHeader)
	require.NoError(t, err)

	require.NoError(t, s.Delete(h))
	require.NoError(t, s.Delete(h))
	_, err = os.Stat(filepath.Join(s.BasePath(), h.ID()))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestBlobStorePutReaderLimit(t *testing.T) {
	s := newStore(t)
	_, err := s.PutReader(context.Background(), "big.png", bytes.NewReader(make([]byte, 11)), 10)
	assert.ErrorIs(t, err, ErrTooLarge)

	h, err := s.PutReader(context.Background(), "ok.png", bytes.NewReader(pngHeader), int64(len(pngHeader)))
	require.NoError(t, err)
	assert.Equal(t, int64(len(pngHeader)), h.Size())
}

func TestNewBlobStoreDefaultsToTempDir(t *testing.T) {
	s, err := NewBlobStore("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.RemoveAll() })
	assert.True(t, strings.HasPrefix(filepath.Base(s.BasePath()), "adjectivemagic-uploads-"))
}

func TestSanitizeKey(t *testing.T) {
	for _, bad := range []string{"", " ", ".", "..", "../etc/passwd", "./"} {
		_, err := sanitizeKey(bad)
		assert.Errorf(t, err, "sanitizeKey(%q)", bad)
	}
	got, err := sanitizeKey("/nested//key")
	require.NoError(t, err)
	assert.Equal(t, "nested/key", got)
}

func TestEncodeBase64(t *testing.T) {
	s := newStore(t)
	h, err := s.Put(context.Background(), "a.png", pngHeader)
	require.NoError(t, err)

	enc, err := EncodeBase64(context.Background(), h)
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(enc, "data:"))
	assert.Equal(t, base64.StdEncoding.EncodeToString(pngHeader), enc)
}

func TestEncodeBase64FileRemovedFromDisk(t *testing.T) {
	s := newStore(t)
	h, err := s.Put(context.Background(), "gone.png", pngHeader)
	require.NoError(t, err)
	require.NoError(t, s.Delete(h))

	_, err = EncodeBase64(context.Background(), h)
	assert.ErrorIs(t, err, domain.ErrEncodingFailed)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEncodePair(t *testing.T) {
	s := newStore(t)
	a, err := s.Put(context.Background(), "a.png", pngHeader)
	require.NoError(t, err)
	b, err := s.Put(context.Background(), "b.png", append([]byte{}, pngHeader[:4]...))
	require.NoError(t, err)

	encA, encB, err := EncodePair(context.Background(), a, b)
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString(pngHeader), encA)
	assert.Equal(t, base64.StdEncoding.EncodeToString(pngHeader[:4]), encB)
}

func TestEncodePairFailsWhenEitherFails(t *testing.T) {
	s := newStore(t)
	ok, err := s.Put(context.Background(), "a.png", pngHeader)
	require.NoError(t, err)
	boom := errors.New("permission revoked")

	for name, pair := range map[string][2]FileHandle{
		"first":  {failingHandle{err: boom}, ok},
		"second": {ok, failingHandle{err: boom}},
		"nil":    {ok, nil},
	} {
		t.Run(name, func(t *testing.T) {
			encA, encB, err := EncodePair(context.Background(), pair[0], pair[1])
			assert.ErrorIs(t, err, domain.ErrEncodingFailed)
			assert.Empty(t, encA)
			assert.Empty(t, encB)
		})
	}
}
