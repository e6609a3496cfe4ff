package compose

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillmd/skillmd/pkg/markdown"
	"github.com/skillmd/skillmd/pkg/skillset"
)

func fixedClock() time.Time {
	return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
}

// assertOrder checks that each fragment appears in output after the
// previous one.
func assertOrder(t *testing.T, output string, fragments ...string) {
	t.Helper()
	pos := 0
	for _, fragment := range fragments {
		idx := strings.Index(output[pos:], fragment)
		require.GreaterOrEqual(t, idx, 0, "expected %q after position %d in output:\n%s", fragment, pos, output)
		pos += idx + len(fragment)
	}
}

func composeSkill(t *testing.T, skillContent string, rules map[string]string) *Result {
	t.Helper()
	rulesDir := t.TempDir()
	for name, content := range rules {
		require.NoError(t, os.WriteFile(filepath.Join(rulesDir, name), []byte(content), 0o644))
	}

	fm, body := markdown.ParseFrontmatter(skillContent)
	doc := &skillset.Document{Frontmatter: fm, Body: body}
	return NewComposer(doc, NewResolver(rulesDir), WithClock(fixedClock)).Compose()
}

const exampleSkill = `---
name: test-skill
description: A skill for testing
---

## When to Apply

Use when testing.

### 1. Example

- [My Rule](rules/my-rule.md)

## Quick Start

Run it.
`

func TestComposeEndToEnd(t *testing.T) {
	res := composeSkill(t, exampleSkill, map[string]string{
		"my-rule.md": "---\ntitle: My Rule\nimpact: HIGH\ndescription: test\n---\n\nHello world.\n",
	})

	assert.Empty(t, res.Warnings)
	assert.Equal(t, 1, res.Rules)
	assert.Equal(t, 0, res.Missing)

	assertOrder(t, res.Output,
		"name: test-skill",
		"# test-skill",
		"A skill for testing",
		"## When to Apply",
		"Use when testing.",
		"1. [Example](#example)",
		"1.1. [My Rule](#my-rule)",
		"## 1. Example",
		"### 1.1. My Rule",
		"🟠 HIGH",
		"> test",
		"Hello world.",
		"## Quick Start",
		"Run it.",
		"Generated: 2026-08-30T12:00:00Z",
	)
}

func TestComposeMissingRule(t *testing.T) {
	res := composeSkill(t, exampleSkill, nil)

	assert.Equal(t, 1, res.Missing)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "rules/my-rule.md")

	assertOrder(t, res.Output,
		"### 1.1. My Rule",
		"*Rule file not found: rules/my-rule.md*",
	)
	assert.NotContains(t, res.Output, "Hello world.")
}

func TestComposeImpactBadges(t *testing.T) {
	tests := []struct {
		impact string
		badge  string
	}{
		{"CRITICAL", "🔴 CRITICAL"},
		{"HIGH", "🟠 HIGH"},
		{"MEDIUM", "🟡 MEDIUM"},
		{"LOW", "🟢 LOW"},
	}

	for _, tt := range tests {
		t.Run(tt.impact, func(t *testing.T) {
			res := composeSkill(t, exampleSkill, map[string]string{
				"my-rule.md": "---\ntitle: My Rule\nimpact: " + tt.impact + "\n---\nbody",
			})
			assert.Contains(t, res.Output, "**Impact: "+tt.badge+"**")
		})
	}

	t.Run("no impact means no badge", func(t *testing.T) {
		res := composeSkill(t, exampleSkill, map[string]string{
			"my-rule.md": "---\ntitle: My Rule\n---\nbody",
		})
		assert.NotContains(t, res.Output, "**Impact:")
	})
}

func TestComposeFrontmatterOrder(t *testing.T) {
	skill := "---\nzebra: one\nalpha: two\n---\n\nbody without sections\n"
	res := composeSkill(t, skill, nil)

	assertOrder(t, res.Output, "---", "zebra: one", "alpha: two", "---")
}

func TestComposeDefaults(t *testing.T) {
	t.Run("missing name falls back to default title", func(t *testing.T) {
		res := composeSkill(t, "no frontmatter at all\n", nil)
		assert.Contains(t, res.Output, "# Agent Skill")
	})

	t.Run("zero sections still composes", func(t *testing.T) {
		res := composeSkill(t, "---\nname: empty\n---\n\njust prose\n", nil)

		assert.Empty(t, res.Sections)
		assert.Contains(t, res.Output, "## Table of Contents")
		assert.Contains(t, res.Output, "Generated: ")
	})
}

func TestComposeNumberingIsPositional(t *testing.T) {
	skill := `---
name: renumbered
---

### 5. First Authored

- [A](rules/a.md)

### 9. Second Authored

- [B](rules/b.md)
`
	res := composeSkill(t, skill, map[string]string{
		"a.md": "---\ntitle: A\n---\nbody a",
		"b.md": "---\ntitle: B\n---\nbody b",
	})

	assertOrder(t, res.Output,
		"1. [First Authored](#first-authored)",
		"2. [Second Authored](#second-authored)",
		"## 1. First Authored",
		"### 1.1. A",
		"## 2. Second Authored",
		"### 2.1. B",
	)
	assert.NotContains(t, res.Output, "## 5.")
	assert.NotContains(t, res.Output, "## 9.")
}

func TestComposeSeparatorIsUniform(t *testing.T) {
	skill := `---
name: sep
---

### 1. Mixed

- [Present](rules/present.md)
- [Absent](rules/absent.md)
`
	res := composeSkill(t, skill, map[string]string{
		"present.md": "---\ntitle: Present\n---\nhere",
	})

	// Both the present and the missing rule are followed by a separator.
	assertOrder(t, res.Output,
		"### 1.1. Present",
		"here",
		"---",
		"### 1.2. Absent",
		"*Rule file not found: rules/absent.md*",
		"---",
	)
}
