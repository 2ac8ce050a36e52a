// Package view renders the storyboard page from an explicit view-model and
// hosts the editing controller that mutates it. Rendering is a pure function
// of the model: the same Model always yields the same HTML.
package view

import "storyboard/internal/domain/part"

// Mode is the page's interaction mode.
type Mode string

const (
	// ModeView is the read-only storyboard.
	ModeView Mode = "view"
	// ModeEdit exposes per-part controls and the add button.
	ModeEdit Mode = "edit"
)

// Model is the complete serializable state behind one rendered page.
// Everything the renderer needs lives here; nothing is read from globals.
type Model struct {
	Parts []part.Part `json:"parts"`
	Mode  Mode        `json:"mode"`

	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`

	// LoginPromptOpen shows the login form. PendingEditMode records that the
	// login was triggered by an edit-mode request, so a successful login
	// completes the mode switch.
	LoginPromptOpen bool `json:"login_prompt_open,omitempty"`
	PendingEditMode bool `json:"pending_edit_mode,omitempty"`

	// EditorOpen shows the part editor form; EditingID is empty when the
	// editor is creating a new part.
	EditorOpen bool   `json:"editor_open,omitempty"`
	EditingID  string `json:"editing_id,omitempty"`

	// Notice is a transient user-facing message (e.g. session expired).
	Notice string `json:"notice,omitempty"`

	// ScrollToID names the part the page should scroll to after a move.
	ScrollToID string `json:"scroll_to_id,omitempty"`
}

// EditMode reports whether the model is in edit mode.
func (m Model) EditMode() bool {
	return m.Mode == ModeEdit
}

// EditingPart returns the part named by EditingID, if present.
func (m Model) EditingPart() (part.Part, bool) {
	for _, p := range m.Parts {
		if p.ID == m.EditingID {
			return p, true
		}
	}
	return part.Part{}, false
}

// EditorPart returns the part being edited, or a zero part when the editor
// is creating. Single-valued for use from the page template.
func (m Model) EditorPart() part.Part {
	p, _ := m.EditingPart()
	return p
}
