package web

import (
	"net/http"

	"storyboard/internal/adapters/http/middleware"
	"storyboard/internal/application/orchestrators"
	"storyboard/internal/domain/editor"
)

// handleLogin handles POST /api/auth/login.
// A successful login sets the signed session cookie; the body reports success
// either way so the client never branches on cookie mechanics.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := strictDecode(r, &input); err != nil {
		jsonError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Username: input.Username,
		Password: input.Password,
	}, orchestrators.LoginDeps{
		Credentials: editor.Credentials{
			Username:     cfg.AuthUsername,
			Password:     cfg.AuthPassword,
			PasswordHash: cfg.AuthPasswordHash,
		},
	})
	if err != nil {
		if err == editor.ErrMissingFields {
			jsonError(w, "Username and password are required", http.StatusBadRequest)
			return
		}
		// One message for wrong username and wrong password alike.
		jsonError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	if err := sessionCodec.Set(w, input.Username); err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"username": input.Username,
	})
}

// handleLogout handles POST /api/auth/logout. Always succeeds: clearing an
// absent session is a no-op.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	sessionCodec.Clear(w)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// handleAuthStatus handles GET /api/auth/status.
func handleAuthStatus(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"username":      sess.Username,
	})
}
