package view

import (
	"context"
	"errors"
	"io"

	"storyboard/internal/domain/part"
)

// ErrUnauthenticated is returned by API implementations when the server
// rejects a call for lack of a valid session. The controller keys its
// recovery path on this error, never on message text.
var ErrUnauthenticated = errors.New("not authenticated")

// ErrInvalidCredentials is returned by API.Login for a wrong username or
// password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// PartFields carries the user-editable fields of a part across the API.
type PartFields struct {
	Title               string
	ImagePath           string
	MovementDescription string
	Content             string
}

// API is everything the controller needs from the server.
type API interface {
	List(ctx context.Context) ([]part.Part, error)
	Create(ctx context.Context, fields PartFields) (part.Part, error)
	Update(ctx context.Context, id string, fields PartFields) (part.Part, error)
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, orders []part.Order) ([]part.Part, error)
	Upload(ctx context.Context, filename string, content io.Reader) (string, error)

	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) (authenticated bool, username string, err error)
}

const sessionExpiredNotice = "Your session has expired. Please sign in again."

// Controller owns a Model and mutates it through named operations.
// It is the only writer of its model; callers read state via Model().
// Not safe for concurrent use.
type Controller struct {
	api   API
	model Model
}

// NewController creates a controller starting in view mode with no parts.
func NewController(api API) *Controller {
	return &Controller{api: api, model: Model{Mode: ModeView}}
}

// Model returns a copy of the current view-model.
func (c *Controller) Model() Model {
	return c.model
}

// Init loads the session status and the part list.
func (c *Controller) Init(ctx context.Context) error {
	authenticated, username, err := c.api.Status(ctx)
	if err != nil {
		return err
	}
	c.model.Authenticated = authenticated
	c.model.Username = username
	return c.Refresh(ctx)
}

// Refresh reloads the canonical part list from the server.
func (c *Controller) Refresh(ctx context.Context) error {
	parts, err := c.api.List(ctx)
	if err != nil {
		return err
	}
	c.model.Parts = parts
	return nil
}

// ToggleEditMode switches between view and edit mode. An unauthenticated
// toggle into edit mode opens the login prompt instead and records the
// pending transition.
func (c *Controller) ToggleEditMode() {
	if c.model.EditMode() {
		c.model.Mode = ModeView
		c.model.EditorOpen = false
		c.model.EditingID = ""
		return
	}
	if !c.model.Authenticated {
		c.model.LoginPromptOpen = true
		c.model.PendingEditMode = true
		return
	}
	c.model.Mode = ModeEdit
}

// SubmitLogin attempts a login. On success the prompt closes and, when the
// login was triggered by an edit-mode request, the mode switch completes.
// On failure the prompt stays open and the error is returned for display.
func (c *Controller) SubmitLogin(ctx context.Context, username, password string) error {
	if err := c.api.Login(ctx, username, password); err != nil {
		return err
	}
	c.model.Authenticated = true
	c.model.Username = username
	c.model.LoginPromptOpen = false
	c.model.Notice = ""
	if c.model.PendingEditMode {
		c.model.PendingEditMode = false
		c.model.Mode = ModeEdit
	}
	return nil
}

// Logout ends the session and drops back to view mode.
func (c *Controller) Logout(ctx context.Context) error {
	if err := c.api.Logout(ctx); err != nil {
		return err
	}
	c.model.Authenticated = false
	c.model.Username = ""
	c.model.Mode = ModeView
	c.model.EditorOpen = false
	c.model.EditingID = ""
	return nil
}

// OpenEditor opens the part editor. An empty id opens it in create mode.
func (c *Controller) OpenEditor(id string) {
	c.model.EditorOpen = true
	c.model.EditingID = id
}

// CloseEditor closes the part editor without saving.
func (c *Controller) CloseEditor() {
	c.model.EditorOpen = false
	c.model.EditingID = ""
}

// SavePart creates or updates depending on which part the editor holds,
// then reloads the list and closes the editor.
func (c *Controller) SavePart(ctx context.Context, fields PartFields) error {
	var err error
	if c.model.EditingID == "" {
		_, err = c.api.Create(ctx, fields)
	} else {
		_, err = c.api.Update(ctx, c.model.EditingID, fields)
	}
	if err != nil {
		return c.handleAPIError(err)
	}
	c.CloseEditor()
	return c.Refresh(ctx)
}

// DeletePart removes a part and reloads the list.
func (c *Controller) DeletePart(ctx context.Context, id string) error {
	if err := c.api.Delete(ctx, id); err != nil {
		return c.handleAPIError(err)
	}
	if c.model.EditingID == id {
		c.CloseEditor()
	}
	return c.Refresh(ctx)
}

// MoveUp swaps a part with its predecessor.
func (c *Controller) MoveUp(ctx context.Context, id string) error {
	return c.move(ctx, id, -1)
}

// MoveDown swaps a part with its successor.
func (c *Controller) MoveDown(ctx context.Context, id string) error {
	return c.move(ctx, id, +1)
}

// move swaps the part with its neighbor, renumbers densely, submits the
// batch reorder and reloads the canonical list. A move past either end is
// a no-op. ScrollToID follows the moved part.
func (c *Controller) move(ctx context.Context, id string, delta int) error {
	idx := -1
	for i, p := range c.model.Parts {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil
	}
	target := idx + delta
	if target < 0 || target >= len(c.model.Parts) {
		return nil
	}

	reordered := make([]part.Part, len(c.model.Parts))
	copy(reordered, c.model.Parts)
	reordered[idx], reordered[target] = reordered[target], reordered[idx]

	if _, err := c.api.Reorder(ctx, part.DenseOrders(reordered)); err != nil {
		return c.handleAPIError(err)
	}
	c.model.ScrollToID = id
	return c.Refresh(ctx)
}

// AttachImage uploads an image and returns its public path for use in the
// editor's ImagePath field.
func (c *Controller) AttachImage(ctx context.Context, filename string, content io.Reader) (string, error) {
	path, err := c.api.Upload(ctx, filename, content)
	if err != nil {
		return "", c.handleAPIError(err)
	}
	return path, nil
}

// handleAPIError funnels every write failure through one place. A server
// 401 means the session cookie expired mid-edit: drop all authenticated
// state, fall back to view mode and reopen the login prompt so the editor
// can resume where they left off.
func (c *Controller) handleAPIError(err error) error {
	if errors.Is(err, ErrUnauthenticated) {
		c.model.Authenticated = false
		c.model.Username = ""
		c.model.Mode = ModeView
		c.model.Notice = sessionExpiredNotice
		c.model.LoginPromptOpen = true
		c.model.PendingEditMode = true
	}
	return err
}
