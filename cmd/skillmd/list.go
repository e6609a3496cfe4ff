package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/skillmd/skillmd/pkg/markdown"
	"github.com/skillmd/skillmd/pkg/presenter"
	"github.com/skillmd/skillmd/pkg/skillset"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List discovered skill packs",
	Long:  `List every skill pack under the skills directory with its section count, rule reference count, and whether an AGENTS.md has been generated.`,
	Run: func(_ *cobra.Command, _ []string) {
		discovery := discoveryFromViper()

		skills, err := discovery.Discover()
		if err != nil {
			presenter.Error(err, "Failed to discover skills")
			os.Exit(1)
		}
		if len(skills) == 0 {
			presenter.Info(fmt.Sprintf("No skills found under %s", discovery.SkillsDir()))
			return
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tSECTIONS\tRULES\tOUTPUT")
		fmt.Fprintln(tw, "----\t--------\t-----\t------")

		for _, skill := range skills {
			sections, rules := "?", "?"
			if doc, err := skillset.LoadDocument(skill.SkillFile); err == nil {
				secs := markdown.SplitSections(doc.Body, markdown.SectionPattern)
				refs := 0
				for _, sec := range secs {
					refs += len(markdown.ExtractRefs(sec.Body, skillset.RulesDirName+"/"))
				}
				sections = fmt.Sprintf("%d", len(secs))
				rules = fmt.Sprintf("%d", refs)
			}

			output := "missing"
			if _, err := os.Stat(skill.OutputFile); err == nil {
				output = "generated"
			}

			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", skill.Name, sections, rules, output)
		}
		tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
