package ingest

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const blockSelector = "h1,h2,h3,h4,h5,h6,p,li,blockquote,pre"

var tagRegex = regexp.MustCompile(`<[a-zA-Z/!][^>]*>`)

// LooksLikeHTML reports whether s contains markup tags.
func LooksLikeHTML(s string) bool {
	return tagRegex.MatchString(s)
}

// HTMLToText extracts readable text from an HTML fragment or page. Block elements
// become paragraphs separated by blank lines; scripts and styles are dropped.
func HTMLToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	doc.Find("script,style,noscript,template").Remove()

	var blocks []string
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		// nested blocks are covered by their outermost block
		if s.ParentsFiltered(blockSelector).Length() > 0 {
			return
		}
		if text := normalizeSpace(s.Text()); text != "" {
			blocks = append(blocks, text)
		}
	})
	if len(blocks) > 0 {
		return strings.Join(blocks, "\n\n"), nil
	}
	return normalizeSpace(doc.Text()), nil
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
