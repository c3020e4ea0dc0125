package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gaurav-prasanna/pagesift/core"
	"github.com/gaurav-prasanna/pagesift/core/chunk"
	"github.com/gaurav-prasanna/pagesift/core/output"
	"github.com/gaurav-prasanna/pagesift/core/pipeline"
	"github.com/gaurav-prasanna/pagesift/core/render"
)

// ScrapeRequest is the body of POST /scrape.
type ScrapeRequest struct {
	URL  string `json:"url"`
	User string `json:"user,omitempty"`
}

// ScrapeResponse is the JSON summary returned by POST /scrape.
type ScrapeResponse struct {
	ID       string            `json:"id"`
	Metadata core.PageMetadata `json:"metadata"`
	Text     string            `json:"text"`
	Chunks   int               `json:"chunks"`
}

// ParseRequest is the body of POST /parse. Either URL or Text is required.
type ParseRequest struct {
	URL         string `json:"url,omitempty"`
	Text        string `json:"text,omitempty"`
	Instruction string `json:"instruction"`
	User        string `json:"user,omitempty"`
}

// ParseResponse is returned by POST /parse.
type ParseResponse struct {
	PageID string `json:"page_id,omitempty"`
	Answer string `json:"answer"`
	Chunks int    `json:"chunks"`
}

// handleScrape scrapes one page. With ?format=text|markdown|json|pdf|raw the
// rendered artifact is returned as a download instead of the JSON summary.
func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	var req ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, core.InvalidArg("scrape", "invalid request body: %v", err))
		return
	}

	var renderer core.Renderer
	if format := r.URL.Query().Get("format"); format != "" {
		var err error
		if renderer, err = render.ForFormat(format, s.maxChunkLength()); err != nil {
			respondError(w, err)
			return
		}
	}

	start := time.Now()
	page, err := s.pipeline.Scrape(r.Context(), pipeline.ScrapeRequest{User: req.User, URL: req.URL})
	s.metrics.scrapes.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		respondError(w, err)
		return
	}
	s.metrics.scrapeDuration.Observe(time.Since(start).Seconds())

	if renderer != nil {
		data, err := renderer.Render(page)
		if err != nil {
			respondError(w, err)
			return
		}
		filename := output.FilenameFromURL(req.URL) + renderer.Extension()
		w.Header().Set("Content-Type", renderer.ContentType())
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	respondJSON(w, http.StatusOK, ScrapeResponse{
		ID:       page.ID,
		Metadata: page.Metadata,
		Text:     page.Text,
		Chunks:   chunk.Count(page.Text, s.maxChunkLength()),
	})
}

// handleParse answers an instruction against either supplied text or a
// freshly scraped URL.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, core.InvalidArg("parse", "invalid request body: %v", err))
		return
	}

	var (
		resp ParseResponse
		err  error
	)
	switch {
	case req.Text != "":
		resp.Answer, err = s.pipeline.ParseText(r.Context(), req.Text, req.Instruction)
		resp.Chunks = chunk.Count(req.Text, s.maxChunkLength())
	case req.URL != "":
		var page *core.Page
		page, resp.Answer, err = s.pipeline.ScrapeAndParse(r.Context(),
			pipeline.ScrapeRequest{User: req.User, URL: req.URL}, req.Instruction)
		if page != nil {
			resp.PageID = page.ID
			resp.Chunks = chunk.Count(page.Text, s.maxChunkLength())
		}
	default:
		err = core.InvalidArg("parse", "url or text is required")
	}

	s.metrics.parses.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		respondError(w, err)
		return
	}
	s.metrics.chunks.Add(float64(resp.Chunks))
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "history is disabled", Kind: core.KindUnknown})
		return
	}

	user := chi.URLParam(r, "user")
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			respondError(w, core.InvalidArg("history", "invalid limit %q", v))
			return
		}
		limit = parsed
	}

	entries, err := s.history.Recent(r.Context(), user, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	if entries == nil {
		entries = []core.HistoryEntry{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"user":  user,
		"items": entries,
	})
}

func (s *Server) maxChunkLength() int {
	if s.pipeline.MaxChunkLength > 0 {
		return s.pipeline.MaxChunkLength
	}
	return chunk.DefaultMaxLength
}
