package view

import (
	"strings"
	"testing"

	"storyboard/internal/domain/part"
)

func sampleModel() Model {
	return Model{
		Mode: ModeView,
		Parts: []part.Part{
			{ID: "a", OrderIndex: 1, Title: "Opening Scene", ImagePath: "/uploads/a.png", MovementDescription: "slow pan", Content: "The **beginning**."},
			{ID: "b", OrderIndex: 2, Title: "Rising Action", Content: "More story."},
		},
	}
}

func TestRender_IsIdempotent(t *testing.T) {
	m := sampleModel()
	first, err := Render(m)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	second, err := Render(m)
	if err != nil {
		t.Fatalf("render again: %v", err)
	}
	if first != second {
		t.Error("rendering the same model twice must produce identical HTML")
	}
}

func TestRender_ViewModeContent(t *testing.T) {
	html, err := Render(sampleModel())
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, want := range []string{
		`id="part-a"`,
		`id="part-b"`,
		"Opening Scene",
		`src="/uploads/a.png"`,
		"slow pan",
		"<strong>beginning</strong>",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("view HTML missing %q", want)
		}
	}
	if strings.Contains(html, `data-action="move-up"`) {
		t.Error("view mode must not render edit controls")
	}
}

func TestRender_EditModeControls(t *testing.T) {
	m := sampleModel()
	m.Mode = ModeEdit
	m.Authenticated = true
	m.Username = "admin"

	html, err := Render(m)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, want := range []string{
		`data-action="move-up"`,
		`data-action="move-down"`,
		`data-action="edit"`,
		`data-action="delete"`,
		`data-action="add"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("edit HTML missing %q", want)
		}
	}
}

func TestRender_EscapesPartFields(t *testing.T) {
	m := Model{
		Mode: ModeView,
		Parts: []part.Part{
			{ID: "x", OrderIndex: 1, Title: `<script>alert("t")</script>`, Content: `<script>alert("c")</script>`},
		},
	}
	html, err := Render(m)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(html, `<script>alert`) {
		t.Error("part fields must be escaped in the output")
	}
}

func TestRender_EmptyState(t *testing.T) {
	html, err := Render(Model{Mode: ModeView})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, `id="empty-state"`) {
		t.Error("empty board must render the empty state")
	}
}

func TestRender_ScrollTarget(t *testing.T) {
	m := sampleModel()
	m.ScrollToID = "b"
	html, err := Render(m)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, `data-scroll-to="part-b"`) {
		t.Error("scroll target must be carried on the body tag")
	}
}

func TestRender_LoginPromptAndEditor(t *testing.T) {
	m := sampleModel()
	m.Mode = ModeEdit
	m.EditorOpen = true
	m.EditingID = "a"
	html, err := Render(m)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, `id="part-editor"`) {
		t.Error("open editor must render the editor form")
	}
	if !strings.Contains(html, `value="Opening Scene"`) {
		t.Error("editing an existing part must prefill its fields")
	}

	m = Model{Mode: ModeView, LoginPromptOpen: true}
	html, err = Render(m)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, `id="login-modal"`) {
		t.Error("open prompt must render the login form")
	}
}
