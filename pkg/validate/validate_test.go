package validate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillmd/skillmd/pkg/skillset"
)

func writePack(t *testing.T, skillContent string, rules map[string]string) skillset.Skill {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "skills", "demo")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "rules"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(skillContent), 0o644))
	for name, content := range rules {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "rules", name), []byte(content), 0o644))
	}

	skill, err := skillset.NewDiscovery(skillset.WithRoot(root)).Get("demo")
	require.NoError(t, err)
	return skill
}

const validSkill = `---
name: demo
description: A demo skill
---

### 1. Basics

- [Good Rule](rules/good.md)
`

func TestCheck(t *testing.T) {
	t.Run("clean pack", func(t *testing.T) {
		skill := writePack(t, validSkill, map[string]string{
			"good.md": "---\ntitle: Good Rule\nimpact: LOW\n---\n\nContent.\n",
		})

		report, err := Check(skill)
		require.NoError(t, err)
		assert.NoError(t, report.Err())
		assert.Empty(t, report.Warnings)
	})

	t.Run("missing frontmatter keys", func(t *testing.T) {
		skill := writePack(t, "### 1. Basics\n", nil)

		report, err := Check(skill)
		require.NoError(t, err)
		require.Error(t, report.Err())
		assert.Contains(t, report.Err().Error(), "missing 'name'")
		assert.Contains(t, report.Err().Error(), "missing 'description'")
	})

	t.Run("broken reference is an error", func(t *testing.T) {
		skill := writePack(t, validSkill, nil)

		report, err := Check(skill)
		require.NoError(t, err)
		require.Error(t, report.Err())
		assert.Contains(t, report.Err().Error(), "rules/good.md")
	})

	t.Run("invalid impact is an error", func(t *testing.T) {
		skill := writePack(t, validSkill, map[string]string{
			"good.md": "---\ntitle: Good Rule\nimpact: SEVERE\n---\nbody",
		})

		report, err := Check(skill)
		require.NoError(t, err)
		require.Error(t, report.Err())
		assert.Contains(t, report.Err().Error(), "SEVERE")
	})

	t.Run("orphaned rule is a warning", func(t *testing.T) {
		skill := writePack(t, validSkill, map[string]string{
			"good.md":   "---\ntitle: Good Rule\nimpact: LOW\n---\nbody",
			"unused.md": "---\ntitle: Unused\n---\nbody",
		})

		report, err := Check(skill)
		require.NoError(t, err)
		assert.NoError(t, report.Err())
		require.NotEmpty(t, report.Warnings)
		assert.Contains(t, report.Warnings[0], "unused.md")
	})

	t.Run("anchor collision is a warning", func(t *testing.T) {
		skill := writePack(t, `---
name: demo
description: demo
---

### 1. Setup

- [Setup Guide](rules/a.md)
- [Other](rules/b.md)
`, map[string]string{
			"a.md": "---\ntitle: Setup Guide\n---\nbody",
			"b.md": "---\ntitle: Setup  Guide\n---\nbody",
		})

		report, err := Check(skill)
		require.NoError(t, err)

		collision := false
		for _, w := range report.Warnings {
			if strings.Contains(w, "anchor collision") && strings.Contains(w, "#setup-guide") {
				collision = true
			}
		}
		assert.True(t, collision, "expected an anchor collision warning, got %v", report.Warnings)
	})

	t.Run("missing SKILL.md is a hard error", func(t *testing.T) {
		skill := skillset.Skill{
			Name:      "ghost",
			SkillFile: filepath.Join(t.TempDir(), "SKILL.md"),
		}
		_, err := Check(skill)
		assert.Error(t, err)
	})

	t.Run("no numbered sections warns", func(t *testing.T) {
		skill := writePack(t, "---\nname: demo\ndescription: demo\n---\n\nplain prose\n", nil)

		report, err := Check(skill)
		require.NoError(t, err)
		require.NotEmpty(t, report.Warnings)
		assert.Contains(t, report.Warnings[0], "no numbered sections")
	})
}
