package email

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// bodyRenderer converts Markdown bodies to HTML. Raw HTML in the source is
// not passed through (WithUnsafe is not set).
var bodyRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// RenderMarkdown returns the HTML body for a Markdown source.
func RenderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := bodyRenderer.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
