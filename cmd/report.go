package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/actionsum/niribar/internal/reporter"
)

var reportCmd = &cobra.Command{
	Use:       "report [day|week|month]",
	Short:     "Show focus time per application",
	Long:      "Summarize the recorded focus changes for the current day, week or month.",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"day", "week", "month"},
	RunE:      runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().Bool("json", false, "Print the report as JSON")
}

func runReport(cmd *cobra.Command, args []string) error {
	periodType := "day"
	if len(args) > 0 {
		periodType = args[0]
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	repo, closeDB, err := openRepository(cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer closeDB()

	rep := reporter.New(cfg, repo)
	report, err := rep.GenerateReport(periodType)
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		jsonStr, err := rep.FormatReportJSON(report)
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), jsonStr)
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), rep.FormatReportText(report))
	return nil
}
