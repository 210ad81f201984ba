package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/actionsum/niribar/internal/bridge"
	"github.com/actionsum/niribar/internal/config"
	"github.com/actionsum/niribar/internal/daemon"
	"github.com/actionsum/niribar/internal/web"
)

// daemonChildEnv marks the re-executed background process
const daemonChildEnv = "NIRIBAR_DAEMON_CHILD"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bridge in the background with a web API",
	Long: `Start the bridge as a daemon that records focus changes and serves the
latest projected state over HTTP.

Endpoints:
  GET /api/state             Latest projected state
  GET /api/events?limit=N    Recently processed niri events
  GET /api/focus/latest      Last recorded focus change
  GET /api/report?period=P   Focus time per app (day, week, month)
  GET /api/status            Bridge status
  GET /health                Health check

Examples:
  niribar serve
  niribar serve --port 9000
  niribar serve --foreground --no-record`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Int("port", 0, "Web API port (overrides config)")
	serveCmd.Flags().Bool("foreground", false, "Stay in the foreground and also print documents to stdout")
	serveCmd.Flags().Bool("no-record", false, "Do not record focus changes to the database")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		if err := cfg.SetWebPort(port); err != nil {
			return err
		}
	}
	noRecord, _ := cmd.Flags().GetBool("no-record")
	cfg.Recorder.Enabled = !noRecord

	dm := daemon.New(cfg.Daemon.PIDFile)
	running, pid, err := dm.IsRunning()
	if err != nil {
		return fmt.Errorf("failed to check bridge status: %w", err)
	}
	if running && os.Getenv(daemonChildEnv) != "1" {
		return fmt.Errorf("bridge is already running (PID: %d)", pid)
	}

	foreground, _ := cmd.Flags().GetBool("foreground")
	if !foreground && os.Getenv(daemonChildEnv) != "1" {
		return daemonize(cfg)
	}

	runServeDaemon(cfg, dm, foreground)
	return nil
}

func runServeDaemon(cfg *config.Config, dm *daemon.Daemon, foreground bool) {
	var out io.Writer = io.Discard
	if foreground {
		out = os.Stdout
	} else {
		logFile, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			log.SetOutput(logFile)
			defer logFile.Close()
		}
	}

	emitter, err := newEmitter(cfg, out)
	if err != nil {
		log.Fatalf("Invalid output configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stream, err := subscribe(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to subscribe to niri events: %v", err)
	}

	var (
		recorder bridge.Recorder
		store    web.Store
		closeDB  = func() {}
	)
	if cfg.Recorder.Enabled {
		repo, closeRepo, err := openRepository(cfg)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		recorder, store, closeDB = repo, repo, closeRepo
	}

	if err := dm.WritePID(); err != nil {
		closeDB()
		log.Fatalf("Failed to write PID file: %v", err)
	}
	defer dm.RemovePID()

	snapshot := bridge.NewSnapshot()
	svc := bridge.NewService(cfg, stream, emitter, recorder, snapshot)
	webServer := web.NewServer(cfg, snapshot, store, 0)

	go func() {
		if err := webServer.Start(); err != nil {
			log.Printf("Web server error: %v", err)
		}
	}()

	log.Println("Starting niribar daemon with web API...")
	log.Printf("Web API available at: http://%s", webServer.GetAddress())
	log.Printf("Configuration:\n%s", cfg.String())

	bridgeErr := svc.Start(ctx)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := webServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down web server: %v", err)
	}

	closeDB()
	if bridgeErr != nil && !errors.Is(bridgeErr, context.Canceled) {
		dm.RemovePID()
		log.Fatalf("Bridge error: %v", bridgeErr)
	}
	log.Println("Daemon stopped successfully")
}

// daemonize re-executes the current command detached from the terminal
func daemonize(cfg *config.Config) error {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}

	env := append(os.Environ(), daemonChildEnv+"=1")
	procAttr := &os.ProcAttr{
		Env:   env,
		Files: []*os.File{nil, nil, nil},
		Sys:   &syscall.SysProcAttr{Setsid: true},
	}

	process, err := os.StartProcess(exe, os.Args, procAttr)
	if err != nil {
		return fmt.Errorf("failed to start daemon process: %w", err)
	}

	fmt.Printf("Daemon started successfully (PID: %d)\n", process.Pid)
	fmt.Printf("Web API available at: http://%s:%d\n", cfg.Web.Host, cfg.Web.Port)
	fmt.Printf("Logs: %s\n", cfg.Log.File)
	return process.Release()
}
