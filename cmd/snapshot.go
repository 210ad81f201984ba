package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/actionsum/niribar/internal/bridge"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print the projected state once and exit",
	Long: `Query the current workspaces and windows from niri, project them and print
a single document. Useful for a bar's initial render or for debugging.`,
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	// indent for a human reader unless --pretty was given
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) && !rootCmd.PersistentFlags().Changed("pretty") {
		cfg.Output.Pretty = true
	}

	emitter, err := newEmitter(cfg, out)
	if err != nil {
		return err
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.IPC.ConnectTimeout)
	defer cancel()

	view, err := bridge.ProjectOnce(ctx, client)
	if err != nil {
		return err
	}

	_, err = emitter.Emit(view)
	return err
}
