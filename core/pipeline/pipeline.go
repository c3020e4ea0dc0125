// Package pipeline runs one URL through fetch → extract → normalize → chunk,
// and parses the resulting chunks against an instruction with a backend.
// A Pipeline holds no per-request state, so one value can serve many
// concurrent requests.
package pipeline

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gaurav-prasanna/pagesift/core"
	"github.com/gaurav-prasanna/pagesift/core/backend"
	"github.com/gaurav-prasanna/pagesift/core/chunk"
	"github.com/gaurav-prasanna/pagesift/core/fetch"
)

const (
	DefaultConcurrency = 1
	DefaultSeparator   = "\n"
)

// Pipeline wires the pipeline stages together.
type Pipeline struct {
	Fetcher    core.Fetcher
	Extractor  core.Extractor
	Normalizer core.Normalizer
	Backend    core.Backend      // optional; required for Parse
	History    core.HistoryStore // optional

	MaxChunkLength int
	Concurrency    int
	Separator      string

	Log zerolog.Logger
	Now func() time.Time
}

// ScrapeRequest identifies the page to scrape and, optionally, the user it
// is scraped for.
type ScrapeRequest struct {
	User string
	URL  string
}

// Scrape fetches the URL and returns its extracted body and normalized text.
// Any stage failure aborts the run; no partial page is returned.
func (p *Pipeline) Scrape(ctx context.Context, req ScrapeRequest) (*core.Page, error) {
	if err := fetch.ValidateURL(req.URL); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	log := p.Log.With().Str("page_id", id).Str("url", req.URL).Logger()
	start := p.now()

	doc, err := p.Fetcher.Fetch(ctx, req.URL)
	if err != nil {
		log.Warn().Err(err).Msg("fetch failed")
		return nil, err
	}

	body, err := p.Extractor.Extract(doc)
	if err != nil {
		log.Warn().Err(err).Msg("extract failed")
		return nil, err
	}

	text, err := p.Normalizer.Normalize(body)
	if err != nil {
		log.Warn().Err(err).Msg("normalize failed")
		return nil, err
	}

	page := &core.Page{
		ID:       id,
		Metadata: BuildMetadata(req.URL, doc),
		RawHTML:  doc.HTML,
		Body:     body,
		Text:     text,
	}

	if p.History != nil && req.User != "" {
		if err := p.History.Add(ctx, req.User, fetch.NormalizeURL(req.URL), p.now()); err != nil {
			log.Error().Err(err).Str("user", req.User).Msg("recording history failed")
			return nil, err
		}
	}

	log.Info().
		Int("html_bytes", len(doc.HTML)).
		Int("text_len", len(text)).
		Dur("took", p.now().Sub(start)).
		Msg("page scraped")
	return page, nil
}

// Chunk splits normalized text with the configured bound.
func (p *Pipeline) Chunk(text string) ([]string, error) {
	return chunk.New(p.MaxChunkLength).Chunk(text)
}

// Parse asks the backend to apply the instruction to every chunk and joins
// the answers in chunk order, whatever order they complete in.
func (p *Pipeline) Parse(ctx context.Context, req core.ParseRequest) (string, error) {
	if strings.TrimSpace(req.Instruction) == "" {
		return "", core.InvalidArg("parse", "instruction is required")
	}
	if p.Backend == nil {
		return "", core.InvalidArg("parse", "no backend configured")
	}

	results := make([]string, len(req.Chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency())

	for i, c := range req.Chunks {
		g.Go(func() error {
			answer, err := p.Backend.Complete(gctx, backend.BuildPrompt(c, req.Instruction))
			if err != nil {
				p.Log.Warn().Err(err).Int("chunk", i+1).Int("chunks", len(req.Chunks)).Msg("chunk parse failed")
				var ce *core.Error
				if errors.As(err, &ce) {
					return err
				}
				return core.BackendErr("parse", err)
			}
			results[i] = answer
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	return strings.Join(results, p.separator()), nil
}

// ParseText chunks text and parses every chunk with the instruction.
func (p *Pipeline) ParseText(ctx context.Context, text, instruction string) (string, error) {
	chunks, err := p.Chunk(text)
	if err != nil {
		return "", err
	}
	return p.Parse(ctx, core.ParseRequest{Chunks: chunks, Instruction: instruction})
}

// ScrapeAndParse scrapes the URL, then parses its text with the instruction.
// The instruction is checked before any network call is made.
func (p *Pipeline) ScrapeAndParse(ctx context.Context, req ScrapeRequest, instruction string) (*core.Page, string, error) {
	if strings.TrimSpace(instruction) == "" {
		return nil, "", core.InvalidArg("parse", "instruction is required")
	}
	page, err := p.Scrape(ctx, req)
	if err != nil {
		return nil, "", err
	}
	answer, err := p.ParseText(ctx, page.Text, instruction)
	if err != nil {
		return nil, "", err
	}
	return page, answer, nil
}

func (p *Pipeline) concurrency() int {
	if p.Concurrency <= 0 {
		return DefaultConcurrency
	}
	return p.Concurrency
}

func (p *Pipeline) separator() string {
	if p.Separator == "" {
		return DefaultSeparator
	}
	return p.Separator
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// BuildMetadata constructs PageMetadata from the URL and fetched document.
func BuildMetadata(rawURL string, doc *core.Document) core.PageMetadata {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		parsed = &url.URL{}
	}

	fetchedAt := doc.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	title, lang := pageInfo(doc.HTML)
	return core.PageMetadata{
		URL:       rawURL,
		Domain:    parsed.Host,
		Path:      parsed.Path,
		Title:     title,
		Language:  lang,
		FetchedAt: fetchedAt.UTC().Format(time.RFC3339),
	}
}
