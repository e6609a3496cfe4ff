package markdown

import (
	"regexp"
)

// SectionPattern matches the numbered section headings of a skill document,
// e.g. "### 3. Session Management". Capture group 1 is the authored number,
// group 2 the title.
var SectionPattern = regexp.MustCompile(`(?m)^### (\d+)\. (.+)$`)

// Section is a numbered grouping of rules inside a skill document. Body is
// the text span from the section's own heading up to the next matching
// heading (or end of document), so consecutive sections partition the
// document tail with no gaps or overlaps. Number is the authored label;
// rendered numbering is positional and assigned at composition time.
type Section struct {
	Number string
	Title  string
	Anchor string
	Body   string
}

// SplitSections partitions body into sections at every heading matched by
// pattern. A body with no matching headings yields no sections, which is a
// valid outcome and not an error.
func SplitSections(body string, pattern *regexp.Regexp) []Section {
	matches := pattern.FindAllStringSubmatchIndex(body, -1)
	if len(matches) == 0 {
		return nil
	}

	sections := make([]Section, 0, len(matches))
	for i, m := range matches {
		end := len(body)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		title := body[m[4]:m[5]]
		sections = append(sections, Section{
			Number: body[m[2]:m[3]],
			Title:  title,
			Anchor: Slug(title),
			Body:   body[m[0]:end],
		})
	}
	return sections
}
