package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/actionsum/niribar/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "version: %s\n", version.Version)
		fmt.Fprintf(cmd.OutOrStdout(), "commit : %s\n", version.Commit)
		fmt.Fprintf(cmd.OutOrStdout(), "built  : %s\n", version.BuildDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
