// Package fetch implements the Fetcher interface.
// Every strategy performs exactly one outbound request per call, bounded by
// an explicit timeout, and reports failures as FetchError. No retries.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gaurav-prasanna/pagesift/core"
)

const (
	DefaultTimeout      = 30 * time.Second
	DefaultUserAgent    = "PageSift/1.0 (https://github.com/gaurav-prasanna/pagesift)"
	DefaultMaxBodyBytes = 10 << 20 // 10 MB
)

// Options configure a fetch strategy.
type Options struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
}

// Option mutates Options.
type Option func(*Options)

// WithTimeout bounds the whole request, including reading the body.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) { o.Timeout = d }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *Options) { o.UserAgent = ua }
}

// WithMaxBodyBytes caps how much of the response body is read.
func WithMaxBodyBytes(n int64) Option {
	return func(o *Options) { o.MaxBodyBytes = n }
}

func buildOptions(opts []Option) Options {
	o := Options{
		Timeout:      DefaultTimeout,
		UserAgent:    DefaultUserAgent,
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return o
}

// HTTPFetcher fetches web pages with a direct HTTP GET.
type HTTPFetcher struct {
	client *http.Client
	opts   Options
}

// New creates an HTTPFetcher.
func New(opts ...Option) *HTTPFetcher {
	o := buildOptions(opts)
	return &HTTPFetcher{
		client: &http.Client{Timeout: o.Timeout},
		opts:   o,
	}
}

// Fetch retrieves the HTML content of the given URL.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*core.Document, error) {
	if err := ValidateURL(url); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, core.FetchErr("fetch", fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, core.FetchErr("fetch", fmt.Errorf("fetching %s: %w", url, err))
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode, url); err != nil {
		return nil, err
	}

	body, err := readBody(resp.Body, f.opts.MaxBodyBytes)
	if err != nil {
		return nil, core.FetchErr("fetch", err)
	}

	return &core.Document{
		URL:        url,
		StatusCode: resp.StatusCode,
		HTML:       string(body),
		FetchedAt:  time.Now().UTC(),
	}, nil
}

// StatusError reports a non-2xx response.
type StatusError struct {
	Status int
	URL    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.Status, e.URL)
}

func checkStatus(status int, url string) error {
	if status < 200 || status >= 300 {
		return core.FetchErr("fetch", &StatusError{Status: status, URL: url})
	}
	return nil
}

func readBody(r io.Reader, limit int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("response body exceeds %d bytes", limit)
	}
	return body, nil
}
