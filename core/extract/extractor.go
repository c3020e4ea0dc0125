// Package extract implements the Extractor interface.
// It isolates the visible-content region of a page by:
//  1. Finding the <body> element
//  2. Removing executable and presentational subtrees (script, style, etc.)
//  3. Serializing what is left back to markup
package extract

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/pagesift/core"
)

// hiddenSelectors match nodes that carry code or styling rather than
// readable content. Their whole subtree is removed.
var hiddenSelectors = "script, style, noscript, template"

var (
	errEmptyDocument = errors.New("document is empty")
	errNoElements    = errors.New("document contains no markup elements")
	errNoBody        = errors.New("no body element found")
)

// HTMLExtractor strips non-content nodes and returns the <body> subtree.
type HTMLExtractor struct{}

// New creates an HTMLExtractor.
func New() *HTMLExtractor {
	return &HTMLExtractor{}
}

// Extract parses the document and returns the serialized <body> element
// with all script and style content removed.
func (e *HTMLExtractor) Extract(doc *core.Document) (string, error) {
	if doc == nil {
		return "", core.InvalidArg("extract", "nil document")
	}
	return extractBody(doc.HTML)
}

// headElements may appear in a document without giving it a body region.
var headElements = map[string]bool{
	"html": true, "head": true, "title": true, "meta": true,
	"link": true, "base": true, "script": true, "style": true,
}

func extractBody(markup string) (string, error) {
	if strings.TrimSpace(markup) == "" {
		return "", core.ParseErr("extract", errEmptyDocument)
	}
	// The HTML5 parser always synthesizes <html><body>, so a missing body is
	// decided on the source tokens.
	elements, body := scanMarkup(markup)
	if !elements {
		return "", core.ParseErr("extract", errNoElements)
	}
	if !body {
		return "", core.ParseErr("extract", errNoBody)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", core.ParseErr("extract", err)
	}

	sel := doc.Find("body").First()
	if sel.Length() == 0 {
		return "", core.ParseErr("extract", errNoBody)
	}
	sel.Find(hiddenSelectors).Remove()

	result, err := goquery.OuterHtml(sel)
	if err != nil {
		return "", core.ParseErr("extract", err)
	}
	return result, nil
}

// scanMarkup reports whether the markup has any start tag and whether it
// has a body region: an explicit <body>, an element that cannot live in
// <head>, or visible text outside title/script/style.
func scanMarkup(markup string) (elements, body bool) {
	z := html.NewTokenizer(strings.NewReader(markup))
	raw := ""
	for {
		switch z.Next() {
		case html.ErrorToken:
			return elements, body
		case html.StartTagToken, html.SelfClosingTagToken:
			elements = true
			name, _ := z.TagName()
			tag := string(name)
			if tag == "body" || !headElements[tag] {
				return true, true
			}
			if tag == "title" || tag == "script" || tag == "style" {
				raw = tag
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); string(name) == raw {
				raw = ""
			}
		case html.TextToken:
			if raw == "" && strings.TrimSpace(string(z.Text())) != "" {
				body = true
			}
		}
	}
}
