package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd is the base command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "reporeferee",
	Short: "Toxicity moderation bot for GitHub repositories",
	Long: `Reporeferee watches the issues, pull requests, and discussions of a
set of repositories, flags toxic text with an LLM classifier, and tracks
each finding as a moderation issue in a dedicated repository.

Configuration is read from REPOREFEREE_* environment variables.`,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
