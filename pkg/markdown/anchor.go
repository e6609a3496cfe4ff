package markdown

import (
	"regexp"
	"strings"
)

var (
	anchorStrip    = regexp.MustCompile(`[^\w\s-]`)
	anchorCollapse = regexp.MustCompile(`\s+`)
)

// Slug derives a URL-safe anchor from a heading title: lowercase, strip
// everything that is not a word character, whitespace, or hyphen, then
// collapse whitespace runs into single hyphens. The same title always yields
// the same slug, which keeps table-of-contents links stable across builds.
func Slug(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = anchorStrip.ReplaceAllString(s, "")
	s = anchorCollapse.ReplaceAllString(s, "-")
	return s
}
