// Package compose resolves a skill document's rule references and renders
// the consolidated AGENTS.md output. The package is a pure computation
// layer: it reads rule files but never writes output or prints; warnings
// are returned as data for the command layer to report.
package compose

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/skillmd/skillmd/pkg/markdown"
	"github.com/skillmd/skillmd/pkg/skillset"
)

// Impact levels a rule may declare in its frontmatter.
const (
	ImpactCritical = "CRITICAL"
	ImpactHigh     = "HIGH"
	ImpactMedium   = "MEDIUM"
	ImpactLow      = "LOW"
)

// Rule is a resolved rule reference. When Missing is true the referenced
// file could not be read and only Title and Path carry meaning.
type Rule struct {
	Title       string
	Path        string
	Impact      string
	Description string
	Tags        string
	Body        string
	Missing     bool
}

// Anchor returns the rule's in-document anchor slug.
func (r Rule) Anchor() string {
	return markdown.Slug(r.Title)
}

// Resolver loads the rule files referenced by a section.
type Resolver struct {
	rulesDir string
	prefix   string
}

// NewResolver creates a resolver for the given rules directory. Link
// references are expected to use the conventional "rules/" path prefix.
func NewResolver(rulesDir string) *Resolver {
	return &Resolver{
		rulesDir: rulesDir,
		prefix:   skillset.RulesDirName + "/",
	}
}

// Resolve extracts the rule references from a section's span and loads each
// one. Every occurrence of a reference is resolved independently; repeated
// references to the same file produce repeated rules. A file that cannot be
// read becomes a Missing placeholder plus a warning rather than an error,
// so one broken link never sinks the build.
func (r *Resolver) Resolve(section markdown.Section) ([]Rule, []string) {
	refs := markdown.ExtractRefs(section.Body, r.prefix)

	var rules []Rule
	var warnings []string
	for _, ref := range refs {
		relPath := r.prefix + ref.File

		data, err := os.ReadFile(filepath.Join(r.rulesDir, filepath.FromSlash(ref.File)))
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("rule file not found: %s (referenced from section %q)", relPath, section.Title))
			rules = append(rules, Rule{Title: ref.Title, Path: relPath, Missing: true})
			continue
		}

		fm, body := markdown.ParseFrontmatter(string(data))
		title := fm.Get("title")
		if title == "" {
			title = ref.Title
		}
		rules = append(rules, Rule{
			Title:       title,
			Path:        relPath,
			Impact:      fm.Get("impact"),
			Description: fm.Get("description"),
			Tags:        fm.Get("tags"),
			Body:        body,
		})
	}
	return rules, warnings
}
