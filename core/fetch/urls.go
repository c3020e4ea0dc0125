package fetch

import (
	"net/url"
	"strings"

	"github.com/gaurav-prasanna/pagesift/core"
)

// ValidateURL checks that rawURL is an absolute http(s) URL with a host.
// It reports InvalidArgument so callers can reject input before any
// network call is attempted.
func ValidateURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return core.InvalidArg("validate url", "url is required")
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return core.InvalidArg("validate url", "invalid url %q: %v", rawURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return core.InvalidArg("validate url", "invalid url %q: scheme must be http or https (e.g. https://example.com)", rawURL)
	}
	if parsed.Host == "" {
		return core.InvalidArg("validate url", "invalid url %q: missing host", rawURL)
	}
	return nil
}

// NormalizeURL strips the fragment and a trailing slash so the same page
// is recorded once in history.
func NormalizeURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	parsed.Fragment = ""
	parsed.Host = strings.ToLower(parsed.Host)

	// Keep root "/".
	if parsed.Path != "/" {
		parsed.Path = strings.TrimSuffix(parsed.Path, "/")
	}

	return parsed.String()
}
