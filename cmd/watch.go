package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/actionsum/niribar/internal/bridge"
	"github.com/actionsum/niribar/internal/config"
	"github.com/actionsum/niribar/internal/output"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the projected state after every niri event",
	Long: `Subscribe to the niri event stream and write one document to stdout per
event. Logs go to stderr. Exits non-zero when the stream ends or the
received state is inconsistent, so a supervisor can restart and resync.

Examples:
  niribar watch
  niribar watch --format yaml
  niribar watch --record`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().Bool("record", false, "Record focus changes and processed events to the database")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("record") {
		cfg.Recorder.Enabled, _ = cmd.Flags().GetBool("record")
	}

	emitter, err := newEmitter(cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stream, err := subscribe(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to subscribe to niri events: %v", err)
	}

	if err := runBridge(ctx, cfg, stream, emitter); err != nil {
		log.Fatalf("Bridge error: %v", err)
	}
	return nil
}

// runBridge runs the event loop until it fails or ctx is cancelled. The
// journal is closed before it returns.
func runBridge(ctx context.Context, cfg *config.Config, source bridge.EventSource, emitter *output.Emitter) error {
	var recorder bridge.Recorder
	if cfg.Recorder.Enabled {
		repo, closeDB, err := openRepository(cfg)
		if err != nil {
			source.Close()
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer closeDB()
		recorder = repo
	}

	svc := bridge.NewService(cfg, source, emitter, recorder, nil)
	if err := svc.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
