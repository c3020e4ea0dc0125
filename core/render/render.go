// Package render provides the downloadable artifacts for a scraped page:
// plain text, Markdown, JSON, PDF, and the raw fetched HTML.
package render

import (
	"sort"

	"github.com/gaurav-prasanna/pagesift/core"
)

// Format names accepted by ForFormat.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatPDF      = "pdf"
	FormatRaw      = "raw"
)

var renderers = map[string]func(maxChunkLength int) core.Renderer{
	FormatText:     func(int) core.Renderer { return NewTextRenderer() },
	FormatMarkdown: func(int) core.Renderer { return NewMarkdownRenderer() },
	FormatJSON:     func(n int) core.Renderer { return NewJSONRenderer(n) },
	FormatPDF:      func(int) core.Renderer { return NewPDFRenderer() },
	FormatRaw:      func(int) core.Renderer { return NewRawRenderer() },
}

// ForFormat returns the renderer for a format name. An empty name selects
// plain text. maxChunkLength is the chunk bound reported by formats that
// count chunks; a non-positive value selects chunk.DefaultMaxLength.
func ForFormat(format string, maxChunkLength int) (core.Renderer, error) {
	if format == "" {
		format = FormatText
	}
	newRenderer, ok := renderers[format]
	if !ok {
		return nil, core.InvalidArg("render", "unknown format %q (want one of %v)", format, Formats())
	}
	return newRenderer(maxChunkLength), nil
}

// Formats lists the supported format names.
func Formats() []string {
	names := make([]string, 0, len(renderers))
	for name := range renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
