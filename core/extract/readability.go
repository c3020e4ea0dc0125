package extract

import (
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
	"github.com/rs/zerolog"

	"github.com/gaurav-prasanna/pagesift/core"
)

// ReadabilityExtractor narrows the page to its main article using Mozilla's
// Readability algorithm, then applies the same script/style removal as
// HTMLExtractor. Pages where no article is detected fall back to the full body.
type ReadabilityExtractor struct {
	log zerolog.Logger
}

// NewReadability creates a ReadabilityExtractor.
func NewReadability(log zerolog.Logger) *ReadabilityExtractor {
	return &ReadabilityExtractor{log: log.With().Str("extractor", "readability").Logger()}
}

// Extract returns the article region wrapped in a <body> element.
func (e *ReadabilityExtractor) Extract(doc *core.Document) (string, error) {
	if doc == nil {
		return "", core.InvalidArg("extract", "nil document")
	}
	if strings.TrimSpace(doc.HTML) == "" {
		return "", core.ParseErr("extract", errEmptyDocument)
	}

	pageURL, err := url.Parse(doc.URL)
	if err != nil || pageURL.Host == "" {
		pageURL = &url.URL{Scheme: "https", Host: "localhost"}
	}

	article, err := readability.FromReader(strings.NewReader(doc.HTML), pageURL)
	if err != nil || strings.TrimSpace(article.Content) == "" {
		e.log.Debug().Err(err).Str("url", doc.URL).Msg("no article found, using full body")
		return extractBody(doc.HTML)
	}
	return extractBody("<html><body>" + article.Content + "</body></html>")
}
