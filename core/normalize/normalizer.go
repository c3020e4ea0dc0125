// Package normalize implements the Normalizer interface.
// It converts extracted body markup into plain text: block-level elements
// become line breaks, whitespace inside a line collapses to single spaces,
// and blank lines are dropped.
package normalize

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/pagesift/core"
)

// blockElements start and end on their own line.
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"body": true, "caption": true, "dd": true, "details": true, "dialog": true,
	"div": true, "dl": true, "dt": true, "fieldset": true, "figcaption": true,
	"figure": true, "footer": true, "form": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "header": true,
	"hgroup": true, "hr": true, "html": true, "li": true, "main": true,
	"nav": true, "ol": true, "option": true, "p": true, "pre": true,
	"section": true, "summary": true, "table": true, "tbody": true,
	"td": true, "tfoot": true, "th": true, "thead": true, "tr": true, "ul": true,
}

// skippedElements never contribute text.
var skippedElements = map[string]bool{
	"head": true, "script": true, "style": true, "noscript": true, "template": true,
}

// TextNormalizer converts markup into newline-delimited plain text.
type TextNormalizer struct{}

// New creates a TextNormalizer.
func New() *TextNormalizer {
	return &TextNormalizer{}
}

// Normalize strips all tags from the markup and collapses whitespace.
// Empty input yields empty output.
func (n *TextNormalizer) Normalize(markup string) (string, error) {
	if strings.TrimSpace(markup) == "" {
		return "", nil
	}

	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return "", core.ParseErr("normalize", err)
	}

	var sb strings.Builder
	writeText(&sb, doc)
	return CollapseLines(sb.String()), nil
}

// writeText appends the text content of n, inserting a newline around
// block-level elements and for <br>.
func writeText(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		if skippedElements[n.Data] {
			return
		}
		if n.Data == "br" {
			sb.WriteByte('\n')
			return
		}
	}

	block := n.Type == html.ElementNode && blockElements[n.Data]
	if block {
		sb.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(sb, c)
	}
	if block {
		sb.WriteByte('\n')
	}
}

// CollapseLines trims every line, collapses runs of whitespace inside a
// line to one space, drops lines that end up empty, and joins the rest
// with a single newline.
func CollapseLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
