package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gaurav-prasanna/pagesift/core"
)

// RemoteFetcher asks a remote browser service to load and render the page,
// which lets JavaScript-built pages be scraped. The service receives
// {"url": ..., "timeout_ms": ...} and answers with the rendered HTML.
type RemoteFetcher struct {
	endpoint string
	token    string
	client   *http.Client
	opts     Options
}

type renderRequest struct {
	URL       string `json:"url"`
	TimeoutMS int64  `json:"timeout_ms"`
	UserAgent string `json:"user_agent,omitempty"`
}

// NewRemote creates a RemoteFetcher that posts to endpoint. token, if set,
// is sent as a bearer token.
func NewRemote(endpoint, token string, opts ...Option) *RemoteFetcher {
	o := buildOptions(opts)
	return &RemoteFetcher{
		endpoint: endpoint,
		token:    token,
		client:   &http.Client{Timeout: o.Timeout},
		opts:     o,
	}
}

// Fetch renders the URL remotely and returns the resulting markup.
func (f *RemoteFetcher) Fetch(ctx context.Context, url string) (*core.Document, error) {
	if err := ValidateURL(url); err != nil {
		return nil, err
	}
	if f.endpoint == "" {
		return nil, core.InvalidArg("fetch", "remote render endpoint is not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()

	payload, err := json.Marshal(renderRequest{
		URL:       url,
		TimeoutMS: f.opts.Timeout.Milliseconds(),
		UserAgent: f.opts.UserAgent,
	})
	if err != nil {
		return nil, core.FetchErr("fetch", fmt.Errorf("marshaling render request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, core.FetchErr("fetch", fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/html")
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, core.FetchErr("fetch", fmt.Errorf("rendering %s: %w", url, err))
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
