package session

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"adjectivemagic/internal/adjective"
	"adjectivemagic/internal/preview"
	"adjectivemagic/internal/providers/genai"
	"adjectivemagic/internal/storage"
)

type memFile struct {
	id       string
	filename string
	mimeType string
	data     []byte
	openErr  error
}

func (f *memFile) ID() string       { return f.id }
func (f *memFile) Filename() string { return f.filename }
func (f *memFile) MIMEType() string { return f.mimeType }
func (f *memFile) Size() int64      { return int64(len(f.data)) }
func (f *memFile) Open(context.Context) (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

func photo(filename string) *memFile {
	return &memFile{id: filename, filename: filename, mimeType: "image/jpeg", data: []byte("jpeg:" + filename)}
}

func unreadable(filename string) *memFile {
	return &memFile{id: filename, filename: filename, mimeType: "image/jpeg", openErr: errors.New("permission denied")}
}

type fakeBlobs struct {
	mu      sync.Mutex
	deleted []string
}

func (b *fakeBlobs) Delete(h storage.FileHandle) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleted = append(b.deleted, h.ID())
	return nil
}

func (b *fakeBlobs) Deleted() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.deleted...)
}

type fakeGenerator struct {
	mu       sync.Mutex
	calls    int
	requests []genai.ComparisonRequest

	img *genai.Image
	err error

	// started is signalled on entry when set; release blocks the call until
	// closed.
	started chan struct{}
	release chan struct{}
}

func (g *fakeGenerator) GenerateComparison(ctx context.Context, req genai.ComparisonRequest) (*genai.Image, error) {
	g.mu.Lock()
	g.calls++
	g.requests = append(g.requests, req)
	img, err := g.img, g.err
	started, release := g.started, g.release
	g.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if release != nil {
		<-release
	}
	return img, err
}

func (g *fakeGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func (g *fakeGenerator) LastRequest() genai.ComparisonRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.requests[len(g.requests)-1]
}

type fixture struct {
	gen      *fakeGenerator
	blobs    *fakeBlobs
	previews *preview.Registry
	deps     Deps
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		gen:      &fakeGenerator{img: &genai.Image{Data: []byte("magic"), MIMEType: "image/png"}},
		blobs:    &fakeBlobs{},
		previews: preview.NewRegistry(),
		now:      time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	words := []string{"taller", "stronger"}
	next := 0
	picker, err := adjective.NewPickerWithRand(words, func(n int) int {
		i := next % n
		next++
		return i
	})
	if err != nil {
		t.Fatalf("picker: %v", err)
	}
	f.deps = Deps{
		Generator: f.gen,
		Picker:    picker,
		Previews:  f.previews,
		Blobs:     f.blobs,
		Now:       func() time.Time { return f.now },
	}
	return f
}

func (f *fixture) session() *Session {
	return New("sess-1", "en", f.deps)
}
