package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

//go:embed page.html.tmpl
var templateFS embed.FS

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

var pageTemplate = template.Must(template.New("page.html.tmpl").Funcs(template.FuncMap{
	"renderMarkdown": func(md string) template.HTML {
		var buf bytes.Buffer
		if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
			return template.HTML(template.HTMLEscapeString(md))
		}
		return template.HTML(buf.String())
	},
	"add": func(a, b int) int { return a + b },
	"sub": func(a, b int) int { return a - b },
}).ParseFS(templateFS, "page.html.tmpl"))

// Render maps a Model to the storyboard page HTML.
// It is a pure function: no state is read or written, and the same model
// always produces the same output. Part content is rendered as markdown with
// raw HTML escaped; every other field is template-escaped.
func Render(m Model) (string, error) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, m); err != nil {
		return "", fmt.Errorf("render storyboard page: %w", err)
	}
	return buf.String(), nil
}
