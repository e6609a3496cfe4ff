// Command skillmd builds and maintains consolidated AGENTS.md documents
// for skill packs: directories of markdown rules stitched together by a
// top-level SKILL.md.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skillmd/skillmd/pkg/logger"
	"github.com/skillmd/skillmd/pkg/presenter"
)

func init() {
	viper.SetEnvPrefix("SKILLMD")
	viper.AutomaticEnv()

	viper.SetConfigName("skillmd")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()
}

var rootCmd = &cobra.Command{
	Use:   "skillmd",
	Short: "Build consolidated AGENTS.md documents from skill packs",
	Long: `skillmd maintains skill packs: directories under skills/<name>/ that hold
a SKILL.md source document and a rules/ directory of individual rule files.

The build command resolves every rule reference in the SKILL.md sections and
regenerates a single AGENTS.md with a table of contents, inlined rules, and
an auto-generation footer. The watch command keeps doing that on every file
change.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if err := logger.SetLogLevel(viper.GetString("log_level")); err != nil {
			presenter.Warning(fmt.Sprintf("Invalid log level %q, using info", viper.GetString("log_level")))
		}
		logger.SetLogFormat(viper.GetString("log_format"))
		presenter.SetQuiet(viper.GetBool("quiet"))
	},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

func main() {
	rootCmd.PersistentFlags().String("root", ".", "Project root containing the skills/ directory")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "fmt", "Log format (fmt, json)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress non-error output")

	viper.BindPFlag("root", rootCmd.PersistentFlags().Lookup("root"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
