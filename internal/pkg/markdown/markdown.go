package markdown

import (
	"bytes"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

var (
	mdParser = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
			gmhtml.WithXHTML(),
		),
	)
	ugcPolicy   = bluemonday.UGCPolicy()
	plainPolicy = bluemonday.StrictPolicy()
)

func init() {
	ugcPolicy.AllowImages()
	ugcPolicy.AddTargetBlankToFullyQualifiedLinks(true)
	ugcPolicy.RequireNoReferrerOnLinks(true)
}

// Render converts post markdown to sanitized HTML.
func Render(source string) string {
	if strings.TrimSpace(source) == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := mdParser.Convert([]byte(source), &buf); err != nil {
		return plainPolicy.Sanitize(source)
	}

	return enhanceImages(ugcPolicy.SanitizeBytes(buf.Bytes()))
}

// StripTags removes all markup from user text and returns it as plain text.
// Entities escaped by the sanitizer are decoded, so the result is never longer than the input.
func StripTags(text string) string {
	return strings.TrimSpace(html.UnescapeString(plainPolicy.Sanitize(text)))
}

// Excerpt returns the first limit runes of the plain text of markdown source.
func Excerpt(source string, limit int) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(Render(source)))
	if err != nil {
		return ""
	}
	text := strings.Join(strings.Fields(doc.Text()), " ")
	runes := []rune(text)
	if limit > 0 && len(runes) > limit {
		return string(runes[:limit]) + "..."
	}
	return text
}

func enhanceImages(sanitized []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(sanitized))
	if err != nil {
		return string(sanitized)
	}

	doc.Find("img").Each(func(i int, s *goquery.Selection) {
		s.SetAttr("loading", "lazy")
		s.SetAttr("referrerpolicy", "no-referrer")
	})

	out, err := doc.Find("body").Html()
	if err != nil || out == "" {
		return string(sanitized)
	}
	return out
}
