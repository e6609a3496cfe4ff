package compose

import (
	"fmt"
	"strings"
	"time"

	"github.com/skillmd/skillmd/pkg/markdown"
	"github.com/skillmd/skillmd/pkg/skillset"
)

const (
	defaultTitle    = "Agent Skill"
	preambleHeading = "When to Apply"
	separator       = "---"
)

// trailingHeadings are re-emitted after the numbered sections, in this
// order, regardless of where they sit in the source document.
var trailingHeadings = []string{"Quick Start", "References"}

// impactBadge maps an impact level to its badge. Unknown non-empty levels
// fall through to the low badge.
func impactBadge(impact string) string {
	switch impact {
	case ImpactCritical:
		return "🔴"
	case ImpactHigh:
		return "🟠"
	case ImpactMedium:
		return "🟡"
	default:
		return "🟢"
	}
}

// SectionRules pairs a section with its resolved rules.
type SectionRules struct {
	Section markdown.Section
	Rules   []Rule
}

// Result is the outcome of one composition: the full output text plus the
// warnings and counters the command layer reports.
type Result struct {
	Output   string
	Warnings []string
	Sections []SectionRules
	Rules    int
	Missing  int
}

// Composer renders a skill document and its resolved rules into the final
// consolidated document. It holds no mutable state across Compose calls.
type Composer struct {
	doc      *skillset.Document
	resolver *Resolver
	now      func() time.Time
}

// ComposerOption configures a Composer.
type ComposerOption func(*Composer)

// WithClock overrides the timestamp source used for the generation footer.
func WithClock(now func() time.Time) ComposerOption {
	return func(c *Composer) {
		c.now = now
	}
}

// NewComposer creates a composer for the given document and resolver.
func NewComposer(doc *skillset.Document, resolver *Resolver, opts ...ComposerOption) *Composer {
	c := &Composer{doc: doc, resolver: resolver, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose produces the consolidated document. Section and rule numbering is
// positional (1-based index), assigned here; authored section numbers are
// not rendered. Missing rules render a not-found notice and, like present
// rules, are followed by a separator so the output shape stays uniform.
func (c *Composer) Compose() *Result {
	res := &Result{}
	var b strings.Builder

	c.writeFrontmatter(&b)
	c.writeHeader(&b)

	sections := markdown.SplitSections(c.doc.Body, markdown.SectionPattern)
	for _, sec := range sections {
		rules, warnings := c.resolver.Resolve(sec)
		res.Sections = append(res.Sections, SectionRules{Section: sec, Rules: rules})
		res.Warnings = append(res.Warnings, warnings...)
		res.Rules += len(rules)
		for _, rule := range rules {
			if rule.Missing {
				res.Missing++
			}
		}
	}

	c.writeTOC(&b, res.Sections)
	c.writeSections(&b, res.Sections)
	c.writeTrailingBlocks(&b)
	c.writeFooter(&b)

	res.Output = b.String()
	return res
}

func (c *Composer) writeFrontmatter(b *strings.Builder) {
	b.WriteString(separator + "\n")
	for _, f := range c.doc.Frontmatter {
		fmt.Fprintf(b, "%s: %s\n", f.Key, f.Value)
	}
	b.WriteString(separator + "\n\n")
}

func (c *Composer) writeHeader(b *strings.Builder) {
	title := c.doc.Frontmatter.Get("name")
	if title == "" {
		title = defaultTitle
	}
	fmt.Fprintf(b, "# %s\n\n", title)

	if desc := c.doc.Frontmatter.Get("description"); desc != "" {
		fmt.Fprintf(b, "%s\n\n", desc)
	}

	if block, ok := markdown.ExtractBlock(c.doc.Body, preambleHeading); ok {
		fmt.Fprintf(b, "## %s\n\n%s\n\n", preambleHeading, block)
	}
}

func (c *Composer) writeTOC(b *strings.Builder, sections []SectionRules) {
	b.WriteString("## Table of Contents\n\n")
	for i, sr := range sections {
		fmt.Fprintf(b, "%d. [%s](#%s)\n", i+1, sr.Section.Title, sr.Section.Anchor)
		for j, rule := range sr.Rules {
			fmt.Fprintf(b, "    %d.%d. [%s](#%s)\n", i+1, j+1, rule.Title, rule.Anchor())
		}
	}
	b.WriteString("\n")
}

func (c *Composer) writeSections(b *strings.Builder, sections []SectionRules) {
	b.WriteString(separator + "\n\n")
	for i, sr := range sections {
		fmt.Fprintf(b, "## %d. %s\n\n", i+1, sr.Section.Title)
		fmt.Fprintf(b, "<a id=%q></a>\n\n", sr.Section.Anchor)

		for j, rule := range sr.Rules {
			fmt.Fprintf(b, "### %d.%d. %s\n\n", i+1, j+1, rule.Title)
			fmt.Fprintf(b, "<a id=%q></a>\n\n", rule.Anchor())

			if rule.Missing {
				fmt.Fprintf(b, "*Rule file not found: %s*\n\n", rule.Path)
			} else {
				if rule.Impact != "" {
					fmt.Fprintf(b, "**Impact: %s %s**\n\n", impactBadge(rule.Impact), rule.Impact)
				}
				if rule.Description != "" {
					fmt.Fprintf(b, "> %s\n\n", rule.Description)
				}
				if body := strings.TrimSpace(rule.Body); body != "" {
					fmt.Fprintf(b, "%s\n\n", body)
				}
			}
			b.WriteString(separator + "\n\n")
		}
	}
}

func (c *Composer) writeTrailingBlocks(b *strings.Builder) {
	for _, heading := range trailingHeadings {
		if block, ok := markdown.ExtractBlock(c.doc.Body, heading); ok {
			fmt.Fprintf(b, "## %s\n\n%s\n\n", heading, block)
		}
	}
}

func (c *Composer) writeFooter(b *strings.Builder) {
	b.WriteString(separator + "\n\n")
	fmt.Fprintf(b, "*This document is auto-generated from %s and %s/. Do not edit it by hand.*\n",
		skillset.SkillFileName, skillset.RulesDirName)
	fmt.Fprintf(b, "*Generated: %s — run `skillmd build` to regenerate.*\n",
		c.now().UTC().Format(time.RFC3339))
}
