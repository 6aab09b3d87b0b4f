package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "commit-digest",
	Short: "Summarize daily GitHub commit activity to a Teams webhook",
	Long: `commit-digest is a once-daily batch tool that aggregates a developer's
commit activity across every accessible repository and branch, summarizes it
with an AI model, and posts the digest to a Microsoft Teams webhook.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Default behavior - show help
		cmd.Help()
	},
}

func Execute() error {
	return rootCmd.Execute()
}
