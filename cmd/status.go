package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/actionsum/niribar/internal/config"
	"github.com/actionsum/niribar/internal/daemon"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show bridge status and the focused niri window",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	dm := daemon.New(cfg.Daemon.PIDFile)
	running, pid, err := dm.IsRunning()
	if err != nil {
		return fmt.Errorf("failed to check bridge status: %w", err)
	}

	if !running {
		fmt.Fprintln(out, "Status: Not running")
	} else {
		fmt.Fprintf(out, "Status: Running (PID: %d)\n", pid)
		fmt.Fprintf(out, "Web API: http://%s:%d\n", cfg.Web.Host, cfg.Web.Port)
		fmt.Fprintf(out, "Logs: %s\n", cfg.Log.File)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.IPC.ConnectTimeout)
	defer cancel()
	printNiriStatus(ctx, cfg, out)
	return nil
}

func printNiriStatus(ctx context.Context, cfg *config.Config, out io.Writer) {
	client, err := newClient(cfg)
	if err != nil {
		fmt.Fprintf(out, "\nniri: %v\n", err)
		return
	}

	fmt.Fprintf(out, "\nniri:\n  Socket: %s\n", client.Path())

	version, err := client.Version(ctx)
	if err != nil {
		fmt.Fprintf(out, "  Error: %v\n", err)
		return
	}
	fmt.Fprintf(out, "  Version: %s\n", version)

	window, err := client.FocusedWindow(ctx)
	if err != nil {
		fmt.Fprintf(out, "  Error: %v\n", err)
		return
	}
	if window == nil {
		fmt.Fprintln(out, "\nNo focused window")
		return
	}

	fmt.Fprintf(out, "\nFocused Window:\n")
	fmt.Fprintf(out, "  App: %s\n", window.AppName())
	fmt.Fprintf(out, "  Title: %s\n", window.WindowTitle())
	if pos, ok := window.Position(); ok {
		fmt.Fprintf(out, "  Column: %d, Row: %d\n", pos.Column, pos.Row)
	} else if window.IsFloating {
		fmt.Fprintln(out, "  Floating")
	}
}
