package feed

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	tagRe        = regexp.MustCompile(`<[^>]*>`)
	nbspRe       = regexp.MustCompile(`&nbsp;`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// SanitizeHTML strips markup from a description string and returns plain
// text. Feeds routinely carry malformed HTML, so a failed document parse
// falls back to a regex strip. Always returns a string, possibly empty.
func SanitizeHTML(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return collapseWhitespace(stripTags(raw))
	}

	return collapseWhitespace(doc.Find("body").Text())
}

func stripTags(s string) string {
	s = tagRe.ReplaceAllString(s, " ")
	return nbspRe.ReplaceAllString(s, " ")
}

func collapseWhitespace(s string) string {
	// goquery decodes &nbsp; to U+00A0, which \s does not match
	s = strings.ReplaceAll(s, " ", " ")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
