// Package core defines the pipeline types and interfaces for PageSift.
// Each stage of the pipeline is a small interface so strategies can be
// swapped without touching the callers.
package core

import (
	"context"
	"time"
)

// Document holds the raw markup and response metadata from a fetch.
type Document struct {
	URL        string
	StatusCode int
	HTML       string
	FetchedAt  time.Time
}

// PageMetadata holds metadata extracted from the page and URL.
type PageMetadata struct {
	URL       string `json:"url"`
	Domain    string `json:"domain"`
	Path      string `json:"path"`
	Title     string `json:"title"`
	Language  string `json:"language"`
	FetchedAt string `json:"fetched_at"` // RFC3339
}

// Page is the result of one scrape: the raw document, the extracted body
// markup, and the normalized text derived from it.
type Page struct {
	ID       string
	Metadata PageMetadata
	RawHTML  string
	Body     string
	Text     string
}

// ParseRequest pairs the ordered chunks of a page with the user's instruction.
type ParseRequest struct {
	Chunks      []string
	Instruction string
}

// HistoryEntry is one recorded scrape for a user.
type HistoryEntry struct {
	User       string    `json:"user"`
	URL        string    `json:"url"`
	SearchedAt time.Time `json:"searched_at"`
}

// Fetcher retrieves raw markup from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Document, error)
}

// Extractor pulls the visible-content region from a fetched document and
// returns it serialized as markup.
type Extractor interface {
	Extract(doc *Document) (string, error)
}

// Normalizer converts extracted body markup into compact plain text.
type Normalizer interface {
	Normalize(html string) (string, error)
}

// Backend answers a single prompt. Implementations call an external model.
type Backend interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// HistoryStore persists which URLs a user scraped and when.
type HistoryStore interface {
	Add(ctx context.Context, user, url string, at time.Time) error
	Recent(ctx context.Context, user string, limit int) ([]HistoryEntry, error)
}

// Renderer converts a scraped page into a downloadable artifact.
type Renderer interface {
	Render(page *Page) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".txt", ".pdf").
	Extension() string
	// ContentType returns the MIME type served for this artifact.
	ContentType() string
}
