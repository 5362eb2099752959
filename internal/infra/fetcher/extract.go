package fetcher

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// paragraphSelectors are tried in order when Readability finds nothing.
var paragraphSelectors = []string{
	"article p",
	"[itemprop='articleBody'] p",
	".article-body p",
	".story-body p",
	"main p",
	"p",
}

// minParagraphLength drops navigation crumbs and captions in the fallback path.
const minParagraphLength = 40

// extractText returns the readable body text of an HTML page.
// Readability runs first; the goquery paragraph heuristic is the fallback.
func extractText(html []byte, pageURL *url.URL) (string, error) {
	article, err := readability.FromReader(bytes.NewReader(html), pageURL)
	if err == nil {
		if text := normalizeText(article.TextContent); text != "" {
			return text, nil
		}
	}

	text, qerr := extractParagraphs(html)
	if qerr != nil {
		if err != nil {
			return "", fmt.Errorf("%w: readability: %v; fallback: %v", ErrExtractionFailed, err, qerr)
		}
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, qerr)
	}
	return text, nil
}

// extractParagraphs collects <p> text from the first selector that yields any.
func extractParagraphs(html []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script, style, noscript, nav, footer, aside").Remove()

	for _, selector := range paragraphSelectors {
		var paragraphs []string
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			text := strings.Join(strings.Fields(s.Text()), " ")
			if len(text) >= minParagraphLength {
				paragraphs = append(paragraphs, text)
			}
		})
		if len(paragraphs) > 0 {
			return strings.Join(paragraphs, "\n\n"), nil
		}
	}
	return "", fmt.Errorf("no readable content found")
}

// normalizeText trims every line and collapses runs of blank lines.
func normalizeText(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
