package markdown

import (
	"regexp"
)

// Ref is a markdown link to a rule file: the display text and the filename
// relative to the rules directory. A Ref does not imply the file exists.
type Ref struct {
	Title string
	File  string
}

// ExtractRefs scans span left to right for markdown links of the form
// [title](<prefix><file>.md) and returns them in order of appearance.
// Duplicate references are kept; callers that need one-per-file semantics
// filter by File themselves. An empty span yields a nil slice.
func ExtractRefs(span, prefix string) []Ref {
	re := regexp.MustCompile(`\[([^\]]+)\]\(` + regexp.QuoteMeta(prefix) + `([^)\s]+\.md)\)`)

	var refs []Ref
	for _, m := range re.FindAllStringSubmatch(span, -1) {
		refs = append(refs, Ref{Title: m[1], File: m[2]})
	}
	return refs
}
