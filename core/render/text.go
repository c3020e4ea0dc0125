package render

import (
	"github.com/gaurav-prasanna/pagesift/core"
)

// TextRenderer writes the normalized text as-is.
type TextRenderer struct{}

// NewTextRenderer creates a TextRenderer.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

// Render returns the normalized text (passthrough).
func (r *TextRenderer) Render(page *core.Page) ([]byte, error) {
	return []byte(page.Text), nil
}

// Extension returns the file extension for text output.
func (r *TextRenderer) Extension() string {
	return ".txt"
}

// ContentType returns the MIME type for text output.
func (r *TextRenderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// RawRenderer writes the fetched HTML untouched.
type RawRenderer struct{}

// NewRawRenderer creates a RawRenderer.
func NewRawRenderer() *RawRenderer {
	return &RawRenderer{}
}

// Render returns the raw HTML as fetched.
func (r *RawRenderer) Render(page *core.Page) ([]byte, error) {
	return []byte(page.RawHTML), nil
}

// Extension returns the file extension for raw HTML output.
func (r *RawRenderer) Extension() string {
	return ".html"
}

// ContentType returns the MIME type for raw HTML output.
func (r *RawRenderer) ContentType() string {
	return "text/html; charset=utf-8"
}
