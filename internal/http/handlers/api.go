package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"adjectivemagic/internal/middleware"
	"adjectivemagic/internal/session"
	"adjectivemagic/internal/subject"
)

type renameRequest struct {
	Name string `json:"name"`
}

type adjectiveResponse struct {
	Adjective string           `json:"adjective"`
	Session   session.Snapshot `json:"session"`
}

// CreateSession replaces the caller's session with a fresh one.
func (a *App) CreateSession(w http.ResponseWriter, r *http.Request) {
	if old := middleware.SessionFromContext(r.Context()); old != nil {
		a.Sessions.Discard(old.ID())
	}
	sess := a.Sessions.Create(middleware.LocaleFromContext(r.Context()))
	middleware.SetSessionCookie(w, r, sess)
	a.json(w, http.StatusCreated, sess.Snapshot())
}

func (a *App) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.apiSession(w, r)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, sess.Snapshot())
}

func (a *App) APIUploadPhoto(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.apiSession(w, r)
	if !ok {
		return
	}
	slot, err := subject.ParseSlot(chi.URLParam(r, "slot"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	h, err := a.receivePhoto(w, r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if err := sess.SelectFile(slot, h); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, sess.Snapshot())
}

func (a *App) APIRenameSubject(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.apiSession(w, r)
	if !ok {
		return
	}
	slot, err := subject.ParseSlot(chi.URLParam(r, "slot"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	var req renameRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10)).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := sess.RenameSubject(slot, req.Name); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, sess.Snapshot())
}

func (a *App) APIDrawAdjective(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.apiSession(w, r)
	if !ok {
		return
	}
	adj, err := sess.DrawAdjective()
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, adjectiveResponse{Adjective: adj, Session: sess.Snapshot()})
}

// APIGenerate waits for the attempt to finish. Failures are reported in the
// error envelope; the session snapshot carries the same message.
func (a *App) APIGenerate(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.apiSession(w, r)
	if !ok {
		return
	}
	if err := sess.Generate(r.Context()); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, sess.Snapshot())
}

func (a *App) APIOpenGallery(w http.ResponseWriter, r *http.Request) {
	if sess, ok := a.apiSession(w, r); ok {
		sess.OpenGallery()
		a.json(w, http.StatusOK, sess.Snapshot())
	}
}

func (a *App) APICloseGallery(w http.ResponseWriter, r *http.Request) {
	if sess, ok := a.apiSession(w, r); ok {
		sess.CloseGallery()
		a.json(w, http.StatusOK, sess.Snapshot())
	}
}

func (a *App) apiSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess := middleware.SessionFromContext(r.Context())
	if sess == nil || sess.Closed() {
		a.error(w, http.StatusNotFound, "no_session", "no active session")
		return nil, false
	}
	return sess, true
}
