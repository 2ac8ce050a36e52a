package web

import (
	"net/http"

	"storyboard/internal/adapters/http/middleware"
	"storyboard/internal/view"
)

// handleIndex handles GET /. It serves the storyboard through the same
// renderer the editing client uses, in read-only view mode.
func handleIndex(w http.ResponseWriter, r *http.Request) {
	parts, err := stores.PartStore.ListAll(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}

	model := view.Model{Parts: parts, Mode: view.ModeView}
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		model.Authenticated = true
		model.Username = sess.Username
	}

	html, err := view.Render(model)
	if err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}
