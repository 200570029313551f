package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderSanitizes(t *testing.T) {
	out := Render("# Title\n\nhello <script>alert(1)</script> **world**")

	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<strong>world</strong>")
	assert.NotContains(t, out, "<script>")
}

func TestRenderImagesAreLazy(t *testing.T) {
	out := Render("![cat](https://example.com/cat.png)")

	assert.Contains(t, out, `loading="lazy"`)
	assert.Contains(t, out, `referrerpolicy="no-referrer"`)
}

func TestRenderEmpty(t *testing.T) {
	assert.Equal(t, "", Render("   "))
}

func TestStripTags(t *testing.T) {
	assert.Equal(t, "nice post", StripTags("<b>nice</b> post<script>x()</script>"))
}

func TestStripTagsKeepsPlainText(t *testing.T) {
	in := `Tom & Jerry say "5 < 6"`
	assert.Equal(t, in, StripTags(in))
	assert.Equal(t, "Tom & Jerry", StripTags("<i>Tom</i> & Jerry"))

	amps := strings.Repeat("&", 1000)
	assert.Equal(t, amps, StripTags(amps))
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "Hello world", Excerpt("# Hello\n\nworld", 0))
	assert.Equal(t, "Hello...", Excerpt("# Hello\n\nworld", 5))
}
