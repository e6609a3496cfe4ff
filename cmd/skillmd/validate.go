package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillmd/skillmd/pkg/presenter"
	"github.com/skillmd/skillmd/pkg/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate [skill]",
	Short: "Lint skill packs without writing anything",
	Long: `Validate checks each skill pack for problems the build would otherwise
paper over: missing or malformed frontmatter, invalid impact levels,
references to rule files that do not exist, rule files that no section
references, and heading titles whose anchors collide in the generated
table of contents.

Broken references and invalid frontmatter are errors; anchor collisions
and orphaned rules are warnings. The command exits non-zero when any skill
has errors.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		skills, err := resolveSkills(args)
		if err != nil {
			presenter.Error(err, "Failed to locate skills")
			os.Exit(1)
		}

		failed := false
		for _, skill := range skills {
			report, err := validate.Check(skill)
			if err != nil {
				presenter.Error(err, fmt.Sprintf("Failed to validate skill '%s'", skill.Name))
				os.Exit(1)
			}

			for _, warning := range report.Warnings {
				presenter.Warning(fmt.Sprintf("%s: %s", skill.Name, warning))
			}
			if err := report.Err(); err != nil {
				presenter.Error(err, fmt.Sprintf("Skill '%s' has problems", skill.Name))
				failed = true
				continue
			}
			presenter.Success(fmt.Sprintf("Skill '%s' is valid (%d warnings)", skill.Name, len(report.Warnings)))
		}

		if failed {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
