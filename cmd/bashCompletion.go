package cmd

import (
	"github.com/spf13/cobra"
)

// bashCompletionCmd represents the bashCompletion command
var bashCompletionCmd = &cobra.Command{
	Use:    "bash-completion",
	Short:  "Provides bash completion for owasp-dependency-check. Use with `. <(owasp-dependency-check bash-completion)`",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rootCmd.GenBashCompletion(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(bashCompletionCmd)
}
