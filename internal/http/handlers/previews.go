package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Preview serves the bytes behind a live preview reference. Released
// references are gone for good.
func (a *App) Preview(w http.ResponseWriter, r *http.Request) {
	file, err := a.Previews.Open(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	rc, err := file.Open(r.Context())
	if err != nil {
		a.log().Warn().Err(err).Str("file_id", file.ID()).Msg("open preview")
		http.NotFound(w, r)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", file.MIMEType())
	w.Header().Set("Content-Length", strconv.FormatInt(file.Size(), 10))
	w.Header().Set("Cache-Control", "private, no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if r.Method == http.MethodHead {
		return
	}
	_, _ = io.Copy(w, rc)
}
