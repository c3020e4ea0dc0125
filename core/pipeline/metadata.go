package pipeline

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const defaultLanguage = "en"

// pageInfo pulls the <title> text and the <html lang> attribute from raw HTML.
func pageInfo(html string) (title, lang string) {
	lang = defaultLanguage
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", lang
	}
	title = strings.Join(strings.Fields(doc.Find("head title").First().Text()), " ")
	if v, ok := doc.Find("html").First().Attr("lang"); ok && strings.TrimSpace(v) != "" {
		lang = strings.TrimSpace(v)
	}
	return title, lang
}
