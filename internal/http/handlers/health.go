package handlers

import (
	"net/http"
)

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{"status": "ok"}
	if a.Sessions != nil {
		body["sessions"] = a.Sessions.Len()
	}
	if a.Model != "" {
		body["model"] = a.Model
	}
	a.json(w, http.StatusOK, body)
}
