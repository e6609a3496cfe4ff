package markdown

import (
	"regexp"
	"strings"
)

var nextBlockHeading = regexp.MustCompile(`(?m)^#{2,3} `)

// ExtractBlock returns the content of the "## <heading>" block in body: the
// text between the heading line and the next level-two or level-three
// heading (or end of document), trimmed. The second return value reports
// whether the heading was found at all. Matching is exact on the heading
// text, not fuzzy.
func ExtractBlock(body, heading string) (string, bool) {
	re := regexp.MustCompile(`(?m)^##\s+` + regexp.QuoteMeta(heading) + `\s*$`)
	loc := re.FindStringIndex(body)
	if loc == nil {
		return "", false
	}

	rest := body[loc[1]:]
	if next := nextBlockHeading.FindStringIndex(rest); next != nil {
		rest = rest[:next[0]]
	}
	return strings.TrimSpace(rest), true
}
