package main

import (
	"context"
	"fmt"
	"os"
	"regexp"

	"github.com/aymanbagabas/go-udiff"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skillmd/skillmd/pkg/compose"
	"github.com/skillmd/skillmd/pkg/logger"
	"github.com/skillmd/skillmd/pkg/presenter"
	"github.com/skillmd/skillmd/pkg/skillset"
)

// BuildConfig holds configuration for the build command.
type BuildConfig struct {
	Check bool
}

// NewBuildConfig creates a BuildConfig with default values.
func NewBuildConfig() *BuildConfig {
	return &BuildConfig{
		Check: false,
	}
}

var buildCmd = &cobra.Command{
	Use:   "build [skill]",
	Short: "Regenerate AGENTS.md for one or all skill packs",
	Long: `Build resolves every rule reference in each skill's SKILL.md and rewrites
its AGENTS.md from scratch. Rule files that cannot be found are rendered as
placeholders and reported as warnings; a missing SKILL.md is fatal.

With --check no file is written: the freshly composed output is compared to
the existing AGENTS.md (ignoring the generation timestamp) and the command
exits non-zero when the file is stale.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		config := getBuildConfigFromFlags(cmd)

		skills, err := resolveSkills(args)
		if err != nil {
			presenter.Error(err, "Failed to locate skills")
			os.Exit(1)
		}

		stale := false
		for _, skill := range skills {
			if config.Check {
				wasStale, err := checkSkill(ctx, skill)
				if err != nil {
					presenter.Error(err, fmt.Sprintf("Failed to check skill '%s'", skill.Name))
					os.Exit(1)
				}
				stale = stale || wasStale
				continue
			}

			res, err := buildSkill(ctx, skill)
			if err != nil {
				presenter.Error(err, fmt.Sprintf("Failed to build skill '%s'", skill.Name))
				os.Exit(1)
			}
			reportBuild(skill, res)
		}

		if stale {
			os.Exit(1)
		}
	},
}

func init() {
	defaults := NewBuildConfig()
	buildCmd.Flags().Bool("check", defaults.Check, "Verify AGENTS.md is up to date instead of writing it")
	rootCmd.AddCommand(buildCmd)
}

func getBuildConfigFromFlags(cmd *cobra.Command) *BuildConfig {
	config := NewBuildConfig()
	if check, err := cmd.Flags().GetBool("check"); err == nil {
		config.Check = check
	}
	return config
}

func discoveryFromViper() *skillset.Discovery {
	return skillset.NewDiscovery(skillset.WithRoot(viper.GetString("root")))
}

// resolveSkills returns the single named skill, or every discovered skill
// when no name is given. Zero discovered skills is an error: the build has
// nothing to operate on.
func resolveSkills(args []string) ([]skillset.Skill, error) {
	discovery := discoveryFromViper()

	if len(args) == 1 {
		skill, err := discovery.Get(args[0])
		if err != nil {
			return nil, err
		}
		return []skillset.Skill{skill}, nil
	}

	skills, err := discovery.Discover()
	if err != nil {
		return nil, err
	}
	if len(skills) == 0 {
		return nil, errors.Errorf("no skills found under %s", discovery.SkillsDir())
	}
	return skills, nil
}

// buildSkill runs the full pipeline for one skill and replaces its
// AGENTS.md. The output file is written whole; there are no partial writes.
func buildSkill(ctx context.Context, skill skillset.Skill) (*compose.Result, error) {
	logger.G(ctx).WithField("skill", skill.Name).Debug("Building skill")

	doc, err := skillset.LoadDocument(skill.SkillFile)
	if err != nil {
		return nil, err
	}

	res := compose.NewComposer(doc, compose.NewResolver(skill.RulesDir)).Compose()

	if err := os.WriteFile(skill.OutputFile, []byte(res.Output), 0o644); err != nil {
		return nil, errors.Wrapf(err, "failed to write %s", skill.OutputFile)
	}
	return res, nil
}

func reportBuild(skill skillset.Skill, res *compose.Result) {
	for _, warning := range res.Warnings {
		presenter.Warning(fmt.Sprintf("%s: %s", skill.Name, warning))
	}
	presenter.Success(fmt.Sprintf("Built %s (%d sections, %d rules, %d missing)",
		skill.OutputFile, len(res.Sections), res.Rules, res.Missing))
}

var generatedLinePattern = regexp.MustCompile(`(?m)^\*Generated: .*$`)

// checkSkill composes without writing and diffs against the current output
// file, ignoring the generation timestamp line. Returns whether the file
// is stale.
func checkSkill(ctx context.Context, skill skillset.Skill) (bool, error) {
	logger.G(ctx).WithField("skill", skill.Name).Debug("Checking skill")

	doc, err := skillset.LoadDocument(skill.SkillFile)
	if err != nil {
		return false, err
	}

	res := compose.NewComposer(doc, compose.NewResolver(skill.RulesDir)).Compose()
	for _, warning := range res.Warnings {
		presenter.Warning(fmt.Sprintf("%s: %s", skill.Name, warning))
	}

	current, err := os.ReadFile(skill.OutputFile)
	if err != nil && !os.IsNotExist(err) {
		return false, errors.Wrapf(err, "failed to read %s", skill.OutputFile)
	}

	have := generatedLinePattern.ReplaceAllString(string(current), "")
	want := generatedLinePattern.ReplaceAllString(res.Output, "")
	if have == want {
		presenter.Success(fmt.Sprintf("%s is up to date", skill.OutputFile))
		return false, nil
	}

	diff := udiff.Unified(skill.OutputFile, skill.OutputFile+" (regenerated)", have, want)
	presenter.Warning(fmt.Sprintf("%s is stale:", skill.OutputFile))
	presenter.Info(diff)
	return true, nil
}
