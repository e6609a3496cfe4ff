// Package markdown provides the low-level parsing primitives used to turn a
// SKILL.md document into structured data: frontmatter splitting, reference
// extraction, section splitting, heading-block extraction, and anchor slugs.
// Parsing is intentionally line/pattern based rather than a full markdown AST;
// each primitive is a pure function with a narrow contract so its edge cases
// can be tested in isolation.
package markdown

import (
	"strings"
)

const delimiter = "---"

// Field is a single frontmatter key/value pair. Values are kept as literal
// strings exactly as authored; a value like "[a, b]" is not parsed further.
type Field struct {
	Key   string
	Value string
}

// Frontmatter is an ordered list of fields. Order matters: the composer
// reproduces the block with keys in their original authoring order.
type Frontmatter []Field

// Get returns the value for key, or an empty string if the key is absent.
func (f Frontmatter) Get(key string) string {
	for _, fld := range f {
		if fld.Key == key {
			return fld.Value
		}
	}
	return ""
}

// Has reports whether key is present in the frontmatter.
func (f Frontmatter) Has(key string) bool {
	for _, fld := range f {
		if fld.Key == key {
			return true
		}
	}
	return false
}

// ParseFrontmatter splits a document into its frontmatter block and body.
//
// The document carries frontmatter only when its first line is exactly "---"
// and a later line closes the block with another "---". Lines in between are
// parsed as "key: value" with the first colon as the delimiter; keys and
// values are trimmed, colons inside values are preserved, and lines without
// a colon are skipped. When the opening delimiter is absent (or never
// closed) the whole input is returned unchanged as the body with a nil
// frontmatter.
func ParseFrontmatter(text string) (Frontmatter, string) {
	lines := strings.Split(text, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != delimiter {
		return nil, text
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == delimiter {
			end = i
			break
		}
	}
	if end == -1 {
		return nil, text
	}

	var fm Frontmatter
	for _, line := range lines[1:end] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		idx := strings.Index(line, ":")
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		if key == "" {
			continue
		}
		fm = append(fm, Field{Key: key, Value: value})
	}

	body := strings.TrimLeft(strings.Join(lines[end+1:], "\n"), "\n")
	return fm, body
}
