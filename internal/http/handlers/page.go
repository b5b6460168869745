package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"adjectivemagic/internal/domain"
	"adjectivemagic/internal/middleware"
	"adjectivemagic/internal/session"
	"adjectivemagic/internal/subject"
)

// Index starts a fresh session on every load, discarding the previous one.
func (a *App) Index(w http.ResponseWriter, r *http.Request) {
	if old := middleware.SessionFromContext(r.Context()); old != nil {
		a.Sessions.Discard(old.ID())
	}
	sess := a.Sessions.Create(middleware.LocaleFromContext(r.Context()))
	middleware.SetSessionCookie(w, r, sess)
	a.render(w, r, http.StatusOK, sess.Snapshot())
}

// Show renders the current session.
func (a *App) Show(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.pageSession(w, r)
	if !ok {
		return
	}
	a.render(w, r, http.StatusOK, sess.Snapshot())
}

func (a *App) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.pageSession(w, r)
	if !ok {
		return
	}
	slot, err := subject.ParseSlot(chi.URLParam(r, "slot"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	h, err := a.receivePhoto(w, r)
	if err != nil {
		a.renderError(w, r, sess, err)
		return
	}
	if err := sess.SelectFile(slot, h); err != nil {
		a.renderError(w, r, sess, err)
		return
	}
	a.back(w, r)
}

func (a *App) RenameSubject(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.pageSession(w, r)
	if !ok {
		return
	}
	slot, err := subject.ParseSlot(chi.URLParam(r, "slot"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := sess.RenameSubject(slot, r.PostFormValue("name")); err != nil {
		a.renderError(w, r, sess, err)
		return
	}
	a.back(w, r)
}

func (a *App) DrawAdjective(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.pageSession(w, r)
	if !ok {
		return
	}
	if _, err := sess.DrawAdjective(); err != nil {
		a.renderError(w, r, sess, err)
		return
	}
	a.back(w, r)
}

// Generate starts an attempt and returns at once; the page shows the loader
// until the event stream reports the outcome. Missing input is already part
// of the session state and a second trigger while in flight is ignored.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.pageSession(w, r)
	if !ok {
		return
	}
	_, err := sess.Start(r.Context())
	switch {
	case err == nil, errors.Is(err, domain.ErrMissingInput), errors.Is(err, domain.ErrInFlight):
		a.back(w, r)
	default:
		a.renderError(w, r, sess, err)
	}
}

func (a *App) OpenGallery(w http.ResponseWriter, r *http.Request) {
	if sess, ok := a.pageSession(w, r); ok {
		sess.OpenGallery()
		a.back(w, r)
	}
}

func (a *App) CloseGallery(w http.ResponseWriter, r *http.Request) {
	if sess, ok := a.pageSession(w, r); ok {
		sess.CloseGallery()
		a.back(w, r)
	}
}

// pageSession resolves the caller's session or sends the browser to start a
// new one.
func (a *App) pageSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess := middleware.SessionFromContext(r.Context())
	if sess == nil || sess.Closed() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return nil, false
	}
	return sess, true
}

func (a *App) back(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/session", http.StatusSeeOther)
}

func (a *App) render(w http.ResponseWriter, r *http.Request, status int, snap session.Snapshot) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := a.Pages.Render(w, middleware.LocaleFromContext(r.Context()), snap); err != nil {
		a.log().Error().Err(err).Msg("render page")
	}
}

// renderError shows the page with err in the inline error slot. The session
// itself is left untouched.
func (a *App) renderError(w http.ResponseWriter, r *http.Request, sess *session.Session, err error) {
	if errors.Is(err, domain.ErrSessionClosed) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	status, _ := classify(err)
	if status >= http.StatusInternalServerError {
		a.log().Error().Err(err).Str("request_id", middleware.RequestIDFromContext(r.Context())).Msg("page action failed")
	}
	snap := sess.Snapshot()
	snap.Error = messageFor(err, middleware.LocaleFromContext(r.Context()))
	a.render(w, r, status, snap)
}
