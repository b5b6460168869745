package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"adjectivemagic/internal/domain"
	"adjectivemagic/internal/infra"
	"adjectivemagic/internal/middleware"
	"adjectivemagic/internal/preview"
	"adjectivemagic/internal/session"
	"adjectivemagic/internal/storage"
	"adjectivemagic/internal/web"
)

// Uploads stores incoming photos.
type Uploads interface {
	PutReader(ctx context.Context, filename string, r io.Reader, limit int64) (storage.FileHandle, error)
	Delete(h storage.FileHandle) error
}

type App struct {
	Sessions       *session.Store
	Uploads        Uploads
	Previews       *preview.Registry
	Pages          *web.Renderer
	Logger         *infra.Logger
	MaxUploadBytes int64
	Model          string
	// KeepAlive is the interval of comment frames on event streams.
	KeepAlive time.Duration
}

func (a *App) log() *infra.Logger {
	if a.Logger == nil {
		return infra.NopLogger()
	}
	return a.Logger
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, errorBody{Error: errorDetail{Code: errCode, Message: message}})
}

// fail writes err in the JSON error envelope with a status derived from its
// kind.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		a.log().Error().Err(err).Str("request_id", middleware.RequestIDFromContext(r.Context())).Msg("request failed")
	}
	a.error(w, status, code, messageFor(err, middleware.LocaleFromContext(r.Context())))
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, storage.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, "too_large"
	case errors.Is(err, domain.ErrUnsupportedMedia):
		return http.StatusBadRequest, "unsupported_media"
	case errors.Is(err, domain.ErrInvalidSlot):
		return http.StatusNotFound, "invalid_slot"
	case errors.Is(err, domain.ErrMissingInput):
		return http.StatusUnprocessableEntity, "missing_input"
	case errors.Is(err, domain.ErrEncodingFailed):
		return http.StatusUnprocessableEntity, "encoding_failed"
	case errors.Is(err, domain.ErrPolicyBlocked):
		return http.StatusUnprocessableEntity, "policy_blocked"
	case errors.Is(err, domain.ErrInFlight):
		return http.StatusConflict, "in_flight"
	case errors.Is(err, domain.ErrSessionClosed):
		return http.StatusGone, "session_closed"
	case errors.Is(err, domain.ErrNoImageReturned):
		return http.StatusBadGateway, "no_image_returned"
	case errors.Is(err, domain.ErrGenerationFailed):
		return http.StatusBadGateway, "generation_failed"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func messageFor(err error, locale string) string {
	var derr *domain.Error
	if errors.As(err, &derr) && derr.Message != "" {
		return derr.Message
	}
	if kind := domain.Kind(err); kind != nil {
		return domain.Message(kind, locale)
	}
	return http.StatusText(http.StatusInternalServerError)
}
