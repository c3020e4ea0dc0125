package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/gaurav-prasanna/pagesift/core"
)

// CollyFetcher fetches pages through a colly collector. Unlike HTTPFetcher
// it consults robots.txt before requesting the page.
type CollyFetcher struct {
	opts Options
}

// NewColly creates a CollyFetcher.
func NewColly(opts ...Option) *CollyFetcher {
	return &CollyFetcher{opts: buildOptions(opts)}
}

// Fetch visits the URL once and returns the response body.
func (f *CollyFetcher) Fetch(ctx context.Context, url string) (*core.Document, error) {
	if err := ValidateURL(url); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()

	c := colly.NewCollector(
		colly.UserAgent(f.opts.UserAgent),
		colly.StdlibContext(ctx),
		// One byte over the cap tells a full body from a truncated one.
		colly.MaxBodySize(int(f.opts.MaxBodyBytes+1)),
	)
	c.IgnoreRobotsTxt = false
	c.SetRequestTimeout(f.opts.Timeout)

	var (
		body     []byte
		status   int
		reqErr   error
		received bool
	)
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		received = true
		if int64(len(r.Body)) > f.opts.MaxBodyBytes {
			reqErr = fmt.Errorf("response body exceeds %d bytes", f.opts.MaxBodyBytes)
			return
		}
		body = append([]byte(nil), r.Body...)
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
		reqErr = err
	})

	visitErr := c.Visit(url)
	c.Wait()

	// colly reports non-2xx responses as errors; surface the status instead.
	if status != 0 {
		if err := checkStatus(status, url); err != nil {
			return nil, err
		}
	}
	if ctx.Err() != nil {
		return nil, core.FetchErr("fetch", ctx.Err())
	}
	if visitErr != nil {
		return nil, core.FetchErr("fetch", visitErr)
	}
	if reqErr != nil {
		return nil, core.FetchErr("fetch", reqErr)
	}
	if !received {
		return nil, core.FetchErr("fetch", errors.New("no response received"))
	}

	return &core.Document{
		URL:        url,
		StatusCode: status,
		HTML:       string(body),
		FetchedAt:  time.Now().UTC(),
	}, nil
}
