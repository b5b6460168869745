package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"adjectivemagic/internal/http/handlers"
	"adjectivemagic/internal/middleware"
	"adjectivemagic/internal/web"
)

// Options carries the request-scoped middleware settings.
type Options struct {
	Logger         zerolog.Logger
	AllowedOrigins []string
	DefaultLocale  string
	CountryLookup  middleware.CountryLookup
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		chimw.RealIP,
		middleware.RequestID,
		middleware.Logger(opts.Logger),
		chimw.Recoverer,
		middleware.CORS(opts.AllowedOrigins),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
	)

	// Health
	r.Get("/v1/healthz", app.Health)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(web.Static()))))
	r.Get("/previews/{id}", app.Preview)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(app.Sessions))

		r.Get("/", app.Index)
		r.Route("/session", func(r chi.Router) {
			r.Get("/", app.Show)
			r.Post("/subjects/{slot}/file", app.UploadPhoto)
			r.Post("/subjects/{slot}/name", app.RenameSubject)
			r.Post("/adjective", app.DrawAdjective)
			r.Post("/generate", app.Generate)
			r.Post("/gallery/open", app.OpenGallery)
			r.Post("/gallery/close", app.CloseGallery)
			r.Get("/gallery/download", app.DownloadGallery)
		})

		r.Route("/api/session", func(r chi.Router) {
			r.Post("/", app.CreateSession)
			r.Get("/", app.GetSession)
			r.Get("/events", app.Events)
			r.Post("/subjects/{slot}/file", app.APIUploadPhoto)
			r.Post("/subjects/{slot}/name", app.APIRenameSubject)
			r.Post("/adjective", app.APIDrawAdjective)
			r.Post("/generate", app.APIGenerate)
			r.Post("/gallery/open", app.APIOpenGallery)
			r.Post("/gallery/close", app.APICloseGallery)
		})
	})

	return r
}
