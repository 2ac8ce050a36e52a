package orchestrators

import (
	"context"
	"log/slog"

	"storyboard/internal/domain/editor"
)

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Username string
	Password string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	Credentials editor.Credentials
}

// ExecuteLogin validates the shared-secret credentials. There are no per-user
// accounts: one configured username and password guard the whole edit
// surface, and session creation is the caller's job.
// PRE: none
// POST: returns nil only for a matching username/password pair
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) error {
	if err := deps.Credentials.Verify(input.Username, input.Password); err != nil {
		reason := "wrong_credentials"
		if err == editor.ErrMissingFields {
			reason = "missing_fields"
		}
		slog.Info("auth_event", "event", "login_failed", "username", input.Username, "reason", reason)
		return err
	}

	slog.Info("auth_event", "event", "login_success", "username", input.Username)
	return nil
}
