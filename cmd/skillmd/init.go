package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/skillmd/skillmd/pkg/presenter"
	"github.com/skillmd/skillmd/pkg/skillset"
)

type skillFrontmatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type ruleFrontmatter struct {
	Title       string `yaml:"title"`
	Impact      string `yaml:"impact"`
	Description string `yaml:"description"`
}

var initCmd = &cobra.Command{
	Use:   "init <name>",
	Short: "Scaffold a new skill pack",
	Long: `Init creates skills/<name>/ with a starter SKILL.md, a rules/ directory,
and one example rule, ready for 'skillmd build'.`,
	Args: cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		if err := initSkill(args[0]); err != nil {
			presenter.Error(err, "Failed to initialize skill")
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func initSkill(name string) error {
	discovery := discoveryFromViper()
	dir := filepath.Join(discovery.SkillsDir(), name)

	if _, err := os.Stat(filepath.Join(dir, skillset.SkillFileName)); err == nil {
		return errors.Errorf("skill '%s' already exists at %s", name, dir)
	}

	rulesDir := filepath.Join(dir, skillset.RulesDirName)
	if err := os.MkdirAll(rulesDir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create skill directories")
	}

	skillDoc, err := renderSkillTemplate(name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, skillset.SkillFileName), []byte(skillDoc), 0o644); err != nil {
		return errors.Wrap(err, "failed to write SKILL.md")
	}

	ruleDoc, err := renderRuleTemplate(name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(rulesDir, "example-rule.md"), []byte(ruleDoc), 0o644); err != nil {
		return errors.Wrap(err, "failed to write example rule")
	}

	presenter.Success(fmt.Sprintf("Initialized skill '%s' at %s", name, dir))
	presenter.Info("Edit SKILL.md and the files under rules/, then run 'skillmd build'")
	return nil
}

func renderSkillTemplate(name string) (string, error) {
	fm, err := yaml.Marshal(skillFrontmatter{
		Name:        name,
		Description: fmt.Sprintf("Guidance for working with %s", name),
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal frontmatter")
	}

	body := `## When to Apply

Describe the situations in which an agent should reach for this skill.

### 1. Getting Started

- [Example Rule](rules/example-rule.md)

## Quick Start

Add a short end-to-end example here.

## References

- Link to upstream documentation.
`
	return "---\n" + string(fm) + "---\n\n" + body, nil
}

func renderRuleTemplate(name string) (string, error) {
	fm, err := yaml.Marshal(ruleFrontmatter{
		Title:       "Example Rule",
		Impact:      "MEDIUM",
		Description: fmt.Sprintf("A starter rule for the %s skill", name),
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal frontmatter")
	}

	body := `Explain the rule here. The whole body is inlined into AGENTS.md.
`
	return "---\n" + string(fm) + "---\n\n" + body, nil
}
