package compose

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillmd/skillmd/pkg/markdown"
)

func section(body string) markdown.Section {
	return markdown.Section{Number: "1", Title: "Example", Anchor: "example", Body: body}
}

func TestResolve(t *testing.T) {
	t.Run("loads referenced rule", func(t *testing.T) {
		rulesDir := t.TempDir()
		content := "---\ntitle: My Rule\nimpact: HIGH\ndescription: test\n---\n\nHello world.\n"
		require.NoError(t, os.WriteFile(filepath.Join(rulesDir, "my-rule.md"), []byte(content), 0o644))

		rules, warnings := NewResolver(rulesDir).Resolve(section("[My Rule](rules/my-rule.md)"))
		require.Len(t, rules, 1)
		assert.Empty(t, warnings)

		rule := rules[0]
		assert.False(t, rule.Missing)
		assert.Equal(t, "My Rule", rule.Title)
		assert.Equal(t, "rules/my-rule.md", rule.Path)
		assert.Equal(t, "HIGH", rule.Impact)
		assert.Equal(t, "test", rule.Description)
		assert.Contains(t, rule.Body, "Hello world.")
	})

	t.Run("missing file becomes a placeholder, not an error", func(t *testing.T) {
		rules, warnings := NewResolver(t.TempDir()).Resolve(section("[Gone](rules/gone.md)"))

		require.Len(t, rules, 1)
		assert.True(t, rules[0].Missing)
		assert.Equal(t, "Gone", rules[0].Title)
		assert.Equal(t, "rules/gone.md", rules[0].Path)
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], "rules/gone.md")
	})

	t.Run("link text is the fallback title", func(t *testing.T) {
		rulesDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(rulesDir, "untitled.md"), []byte("Just a body.\n"), 0o644))

		rules, _ := NewResolver(rulesDir).Resolve(section("[Fallback Title](rules/untitled.md)"))
		require.Len(t, rules, 1)
		assert.Equal(t, "Fallback Title", rules[0].Title)
	})

	t.Run("repeated references resolve independently", func(t *testing.T) {
		rulesDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(rulesDir, "dup.md"), []byte("---\ntitle: Dup\n---\nbody"), 0o644))

		rules, _ := NewResolver(rulesDir).Resolve(section("[Dup](rules/dup.md) and again [Dup](rules/dup.md)"))
		assert.Len(t, rules, 2)
	})

	t.Run("section without references", func(t *testing.T) {
		rules, warnings := NewResolver(t.TempDir()).Resolve(section("no links here"))
		assert.Empty(t, rules)
		assert.Empty(t, warnings)
	})
}

func TestRuleAnchor(t *testing.T) {
	rule := Rule{Title: "User ID Best Practices"}
	assert.Equal(t, "user-id-best-practices", rule.Anchor())
}
