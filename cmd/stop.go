package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/actionsum/niribar/internal/daemon"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the background bridge",
	RunE:  runStop,
}

func init() {
	rootCmd.AddCommand(stopCmd)
	stopCmd.Flags().Duration("timeout", 10*time.Second, "How long to wait for the bridge to exit")
}

func runStop(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")

	dm := daemon.New(cfg.Daemon.PIDFile)
	_, pid, _ := dm.IsRunning()

	if err := dm.Stop(timeout); err != nil {
		if errors.Is(err, daemon.ErrNotRunning) {
			fmt.Fprintln(cmd.OutOrStdout(), "Bridge is not running")
			return nil
		}
		return fmt.Errorf("failed to stop bridge: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Bridge stopped (PID: %d)\n", pid)
	return nil
}
