// Package web renders the session page from embedded templates. Templates
// only display a session snapshot; every action posts back to the server.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"

	"adjectivemagic/internal/domain"
	"adjectivemagic/internal/session"
	"adjectivemagic/internal/subject"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Static returns the embedded assets rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Page is the data rendered by the page template.
type Page struct {
	Locale  string
	Labels  Labels
	Session session.Snapshot
}

type subjectView struct {
	Subject subject.Subject
	Labels  Labels
	Busy    bool
}

func newSubjectView(p Page, s subject.Subject) subjectView {
	return subjectView{Subject: s, Labels: p.Labels, Busy: p.Session.InFlight()}
}

// safeURL trusts generated image data URLs; anything else goes through the
// normal URL filter.
func safeURL(ref string) any {
	if strings.HasPrefix(ref, "data:image/") {
		return template.URL(ref)
	}
	return ref
}

// Renderer executes the parsed page templates.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"safeURL":     safeURL,
		"subjectView": newSubjectView,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("web: parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the full page for snap. The page is buffered so a template
// error never leaves a half-written response.
func (r *Renderer) Render(w io.Writer, locale string, snap session.Snapshot) error {
	locale = domain.NormalizeLocale(locale)
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "page", Page{
		Locale:  locale,
		Labels:  LabelsFor(locale),
		Session: snap,
	}); err != nil {
		return fmt.Errorf("web: render page: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}
