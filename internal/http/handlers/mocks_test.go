package handlers_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/http/cookiejar"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"adjectivemagic/internal/adjective"
	"adjectivemagic/internal/http/handlers"
	"adjectivemagic/internal/http/httpapi"
	"adjectivemagic/internal/preview"
	"adjectivemagic/internal/providers/genai"
	"adjectivemagic/internal/session"
	"adjectivemagic/internal/storage"
	"adjectivemagic/internal/web"
)

var (
	jpegPhoto = append([]byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10}, []byte("JFIF fake jpeg body")...)
	pngPhoto  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR fake png body")
)

type fakeGenerator struct {
	mu    sync.Mutex
	calls int
	img   *genai.Image
	err   error
}

func (g *fakeGenerator) GenerateComparison(ctx context.Context, req genai.ComparisonRequest) (*genai.Image, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	return g.img, g.err
}

func (g *fakeGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

type testEnv struct {
	app      *handlers.App
	router   http.Handler
	gen      *fakeGenerator
	previews *preview.Registry
	store    *session.Store
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	blobs, err := storage.NewBlobStore(t.TempDir())
	if err != nil {
		t.Fatalf("blob store: %v", err)
	}
	pages, err := web.NewRenderer()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	picker, err := adjective.NewPickerWithRand([]string{"taller"}, func(int) int { return 0 })
	if err != nil {
		t.Fatalf("picker: %v", err)
	}
	gen := &fakeGenerator{img: &genai.Image{Data: []byte("magic"), MIMEType: "image/png"}}
	previews := preview.NewRegistry()
	store := session.NewStore(session.Deps{
		Generator: gen,
		Picker:    picker,
		Previews:  previews,
		Blobs:     blobs,
	}, time.Hour)
	t.Cleanup(store.Close)

	app := &handlers.App{
		Sessions:       store,
		Uploads:        blobs,
		Previews:       previews,
		Pages:          pages,
		MaxUploadBytes: 1 << 10,
		Model:          "gemini-test",
		KeepAlive:      time.Hour,
	}
	return &testEnv{
		app:      app,
		router:   httpapi.NewRouter(app, httpapi.Options{Logger: zerolog.Nop(), DefaultLocale: "en"}),
		gen:      gen,
		previews: previews,
		store:    store,
	}
}

// client is a cookie-keeping browser against a live test server.
type client struct {
	t       *testing.T
	baseURL string
	http    *http.Client
}

func (e *testEnv) client(t *testing.T) *client {
	t.Helper()
	srv := httptest.NewServer(e.router)
	t.Cleanup(srv.Close)
	return newClient(t, srv.URL)
}

func newClient(t *testing.T, baseURL string) *client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &client{
		t:       t,
		baseURL: baseURL,
		http: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (c *client) do(req *http.Request) *http.Response {
	c.t.Helper()
	resp, err := c.http.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	c.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (c *client) get(path string) *http.Response {
	c.t.Helper()
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		c.t.Fatal(err)
	}
	return c.do(req)
}

func (c *client) post(path, contentType string, body []byte) *http.Response {
	c.t.Helper()
	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		c.t.Fatal(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return c.do(req)
}

func (c *client) upload(path, filename string, data []byte) *http.Response {
	c.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("photo", filename)
	if err != nil {
		c.t.Fatal(err)
	}
	if _, err := part.Write(data); err != nil {
		c.t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		c.t.Fatal(err)
	}
	return c.post(path, mw.FormDataContentType(), buf.Bytes())
}
