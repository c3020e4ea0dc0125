package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gaurav-prasanna/pagesift/core"
	"github.com/gaurav-prasanna/pagesift/core/chunk"
)

// JSONRenderer produces a structured JSON document for a page.
type JSONRenderer struct {
	// MaxChunkLength is the bound used to report the chunk count.
	MaxChunkLength int
}

// NewJSONRenderer creates a JSONRenderer that counts chunks with
// maxChunkLength, or chunk.DefaultMaxLength when it is not positive.
func NewJSONRenderer(maxChunkLength int) *JSONRenderer {
	if maxChunkLength <= 0 {
		maxChunkLength = chunk.DefaultMaxLength
	}
	return &JSONRenderer{MaxChunkLength: maxChunkLength}
}

// pageJSON is the JSON output for a single page.
type pageJSON struct {
	ID         string            `json:"id"`
	Metadata   core.PageMetadata `json:"metadata"`
	Text       string            `json:"text"`
	Lines      int               `json:"lines"`
	Characters int               `json:"characters"`
	Chunks     int               `json:"chunks"`
}

// Render converts the page into indented JSON.
func (r *JSONRenderer) Render(page *core.Page) ([]byte, error) {
	out := pageJSON{
		ID:         page.ID,
		Metadata:   page.Metadata,
		Text:       page.Text,
		Characters: len([]rune(page.Text)),
		Chunks:     chunk.Count(page.Text, r.MaxChunkLength),
	}
	if page.Text != "" {
		out.Lines = strings.Count(page.Text, "\n") + 1
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}

// ContentType returns the MIME type for JSON output.
func (r *JSONRenderer) ContentType() string {
	return "application/json"
}
