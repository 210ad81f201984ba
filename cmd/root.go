package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/actionsum/niribar/internal/config"
	"github.com/actionsum/niribar/internal/output"
	"github.com/actionsum/niribar/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "niribar",
	Short: "Stream niri window manager state as JSON for status bars",
	Long: `niribar subscribes to the niri compositor's event stream, keeps a model of
outputs, workspaces and windows, and prints the output → workspace → column →
window hierarchy after every event, one JSON document per line.

Environment Variables:
  NIRI_SOCKET              niri IPC socket path
  NIRIBAR_CONFIG           Config file (default $XDG_CONFIG_HOME/niribar/config.yaml)
  NIRIBAR_FORMAT           Output format: json, yaml
  NIRIBAR_PRETTY           Indent JSON documents (true/false)
  NIRIBAR_RECORD           Record focus changes to the database (true/false)
  NIRIBAR_DB_PATH          Database file path
  NIRIBAR_PID_FILE         PID file path
  NIRIBAR_LOG_FILE         Daemon log file
  NIRIBAR_WEB_HOST         Web API host
  NIRIBAR_WEB_PORT         Web API port`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	addConfigFlags(rootCmd.PersistentFlags())
}

func addConfigFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "Config file path")
	flags.String("socket", "", "niri IPC socket path (default $NIRI_SOCKET or discovered in $XDG_RUNTIME_DIR)")
	flags.String("format", "", "Output format: json, yaml")
	flags.Bool("pretty", false, "Indent JSON documents")
	flags.BoolP("verbose", "v", false, "Log every received event")
}

// loadConfig layers defaults, config file, environment and command line flags
func loadConfig() (*config.Config, error) {
	flags := rootCmd.PersistentFlags()
	path, _ := flags.GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	applyFlags(cfg, flags)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyFlags overrides cfg with the flags set on the command line
func applyFlags(cfg *config.Config, flags *pflag.FlagSet) {
	if flags.Changed("socket") {
		cfg.IPC.SocketPath, _ = flags.GetString("socket")
	}
	if flags.Changed("format") {
		cfg.Output.Format, _ = flags.GetString("format")
	}
	if flags.Changed("pretty") {
		cfg.Output.Pretty, _ = flags.GetBool("pretty")
	}
	if flags.Changed("verbose") {
		cfg.Log.Verbose, _ = flags.GetBool("verbose")
	}
}

func newEmitter(cfg *config.Config, w io.Writer) (*output.Emitter, error) {
	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	return output.NewEmitter(w, format, cfg.Output.Pretty), nil
}
