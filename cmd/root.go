package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "civic",
	Short: "Civic engagement API",
	Long: `civic serves bills, legislators, news, polls, community feedback and
civic events over a JSON API, backed by GovTrack, NewsAPI, RSS feeds and
an optional OpenAI assistant.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to a YAML config file, ignored when missing")
}
